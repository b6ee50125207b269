package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pders01/interview/internal/answerfile"
	"github.com/pders01/interview/internal/planner"
)

var (
	planJSON bool
	planToon bool
)

var planCmd = &cobra.Command{
	Use:   "plan <answers.toml>",
	Short: "Replay an answer file through the step table",
	Long: `Replay saved answers through the built-in step table and print the
steps that would be visited, in order. Conditional steps appear only when
the answers collected before them make them eligible. The replay stops at
the first question the file does not answer.

Examples:
  interview plan answers.toml
  interview plan answers.toml --json
  interview plan answers.toml --toon`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output as JSON")
	planCmd.Flags().BoolVar(&planToon, "toon", false, "Output in LLM-friendly toon format")
}

type visitView struct {
	Step    string `json:"step"`
	Type    string `json:"type"`
	Section string `json:"section"`
	Answer  string `json:"answer,omitempty"`
	Pending bool   `json:"pending,omitempty"`
}

type planReport struct {
	Visits   []visitView `json:"visits"`
	Complete bool        `json:"complete"`
	Unused   []string    `json:"unused,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	answers, err := answerfile.Load(args[0])
	if err != nil {
		return err
	}

	visits := planner.Replay(planner.BenefitsSteps(), answers)

	report := planReport{Complete: true}
	used := map[string]bool{}
	for _, v := range visits {
		view := visitView{Step: v.ID, Type: string(v.Type), Section: v.Section, Pending: v.Pending}
		if v.Answer != nil {
			view.Answer = v.Answer.Cell()
			used[v.ID] = true
		}
		if v.Pending {
			report.Complete = false
		}
		report.Visits = append(report.Visits, view)
	}
	for id := range answers {
		if !used[id] {
			report.Unused = append(report.Unused, id)
		}
	}
	sort.Strings(report.Unused)

	out := stdout(cmd)
	if planJSON {
		return writeJSON(out, report)
	}
	if planToon {
		return writeToon(out, report)
	}

	for _, id := range report.Unused {
		fmt.Fprintf(os.Stderr, "Warning: answer for %s was never asked\n", id)
	}

	section := ""
	for i, v := range report.Visits {
		if v.Section != section {
			section = v.Section
			fmt.Fprintf(out, "%s\n", section)
		}
		switch {
		case v.Type == string(planner.StepInfo):
			fmt.Fprintf(out, "  %2d. %s (info)\n", i+1, v.Step)
		case v.Pending:
			fmt.Fprintf(out, "  %2d. %s -> sans réponse\n", i+1, v.Step)
		default:
			fmt.Fprintf(out, "  %2d. %s = %s\n", i+1, v.Step, v.Answer)
		}
	}
	if !report.Complete {
		fmt.Fprintln(out, "\nLe questionnaire n'est pas terminé.")
	}
	return nil
}
