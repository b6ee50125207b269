package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	if got := GetOracleURL(); got != "http://localhost:8787" {
		t.Errorf("expected default oracle URL, got %q", got)
	}
	if got := GetNextQuestionPath(); got != "/api/next-question" {
		t.Errorf("expected default next path, got %q", got)
	}
	if got := GetQuestionnairePath(); got != "/api/questionnaire" {
		t.Errorf("expected default questionnaire path, got %q", got)
	}
	if got := GetOracleTimeout(); got != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", got)
	}
	if GetLogJSON() {
		t.Error("expected console logs by default")
	}
	if got := GetLogLevel(); got != "warn" {
		t.Errorf("expected warn level, got %q", got)
	}
	if got := GetSkipText(); got != "Je préfère ne pas répondre" {
		t.Errorf("unexpected skip text %q", got)
	}
	if got := GetAnswersDir(); got != "answers" {
		t.Errorf("unexpected answers dir %q", got)
	}
}

func TestOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set(KeyOracleTimeout, "3s")
	viper.Set(KeySkipText, "   ")
	viper.Set(KeyLogJSON, true)

	if got := GetOracleTimeout(); got != 3*time.Second {
		t.Errorf("expected 3s, got %v", got)
	}
	if got := GetSkipText(); got != "Je préfère ne pas répondre" {
		t.Errorf("expected blank skip text to fall back, got %q", got)
	}
	if !GetLogJSON() {
		t.Error("expected JSON logs")
	}

	viper.Set(KeyOracleTimeout, "-1s")
	if got := GetOracleTimeout(); got != 15*time.Second {
		t.Errorf("expected fallback for negative timeout, got %v", got)
	}
}

func TestEnvironment(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	t.Setenv("INTERVIEW_ORACLE_URL", "http://oracle.internal:9000")
	SetDefaults()

	if got := GetOracleURL(); got != "http://oracle.internal:9000" {
		t.Errorf("expected env override, got %q", got)
	}
}
