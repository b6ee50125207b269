package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const coupleAnswers = `
[answers]
user-birth-date = "1990-07-14"
living-arrangement = "En couple"
adult2-intent = true
adult2-birth-date = "1991-02-03"
adult2-employment-status = "Salarié(e)"
adult2-salary = 1800
has-children = true
children-count = 2
children-birth-dates = "14/07/2022 ; 01/01/2020"
employment-status = "Indépendant(e)"
self-employed-revenue = 24000
housing-status = "Locataire"
rent-amount = 650.5
postal-code = "75011"
income-types = ["Prestations familiales"]
family-benefit-amount = 120
has-savings = false
owns-real-estate = false
`

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write answers: %v", err)
	}
	return path
}

func TestPlanJSON(t *testing.T) {
	planJSON, planToon = true, false
	defer func() { planJSON = false }()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runPlan(cmd, []string{writeAnswers(t, coupleAnswers+"unused-question = \"x\"\n")}); err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	var report planReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if !report.Complete {
		t.Error("expected a complete replay")
	}
	if len(report.Unused) != 1 || report.Unused[0] != "unused-question" {
		t.Errorf("unexpected unused answers %v", report.Unused)
	}

	var steps []string
	for _, v := range report.Visits {
		steps = append(steps, v.Step)
	}
	joined := strings.Join(steps, ",")
	for _, want := range []string{"partner-intro", "adult2-salary", "children-birth-dates", "rent-amount", "family-benefit-amount"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %s to be visited: %s", want, joined)
		}
	}
	for _, unwanted := range []string{"salary-amount,", "pension-amount", "savings-amount"} {
		if strings.Contains(joined, unwanted) {
			t.Errorf("did not expect %s to be visited: %s", unwanted, joined)
		}
	}
}

func TestPlanText(t *testing.T) {
	planJSON, planToon = false, false

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runPlan(cmd, []string{writeAnswers(t, "[answers]\nuser-birth-date = \"1990-07-14\"\n")}); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	for _, want := range []string{
		"Votre foyer",
		"intro (info)",
		"user-birth-date = 1990-07-14",
		"living-arrangement -> sans réponse",
		"Le questionnaire n'est pas terminé.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPlanToon(t *testing.T) {
	planJSON, planToon = false, true
	defer func() { planToon = false }()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runPlan(cmd, []string{writeAnswers(t, coupleAnswers)}); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !strings.Contains(out.String(), "partner-intro") {
		t.Errorf("expected toon output to list visits:\n%s", out.String())
	}
}

func TestPlanMissingFile(t *testing.T) {
	if err := runPlan(&cobra.Command{}, []string{filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Error("expected error for a missing file")
	}
}
