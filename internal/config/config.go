package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/interview/internal/oracle"
	"github.com/pders01/interview/internal/validate"
)

// Configuration keys.
const (
	KeyOracleURL         = "oracle.url"
	KeyNextQuestionPath  = "oracle.next_path"
	KeyQuestionnairePath = "oracle.questionnaire_path"
	KeyOracleTimeout     = "oracle.timeout"
	KeyLogJSON           = "log.json"
	KeyLogLevel          = "log.level"
	KeySkipText          = "interview.skip_text"
	KeyAnswersDir        = "interview.answers_dir"
)

const (
	defaultOracleTimeout = oracle.DefaultTimeout
	defaultSkipText      = validate.DefaultSkipText
)

// SetDefaults registers default values and binds INTERVIEW_* environment
// variables (e.g. INTERVIEW_ORACLE_URL).
func SetDefaults() {
	viper.SetEnvPrefix("INTERVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyOracleURL, oracle.DefaultURL)
	viper.SetDefault(KeyNextQuestionPath, oracle.DefaultNextPath)
	viper.SetDefault(KeyQuestionnairePath, oracle.DefaultQuestionnairePath)
	viper.SetDefault(KeyOracleTimeout, defaultOracleTimeout)
	viper.SetDefault(KeyLogJSON, false)
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeySkipText, defaultSkipText)
	viper.SetDefault(KeyAnswersDir, "answers")
}

// GetOracleURL returns the base URL of the next-question service
func GetOracleURL() string {
	return viper.GetString(KeyOracleURL)
}

// GetNextQuestionPath returns the path of the next-question endpoint
func GetNextQuestionPath() string {
	return viper.GetString(KeyNextQuestionPath)
}

// GetQuestionnairePath returns the path of the questionnaire description endpoint
func GetQuestionnairePath() string {
	return viper.GetString(KeyQuestionnairePath)
}

// GetOracleTimeout returns the per-request timeout, falling back to the
// default when unset or not positive
func GetOracleTimeout() time.Duration {
	d := viper.GetDuration(KeyOracleTimeout)
	if d <= 0 {
		return defaultOracleTimeout
	}
	return d
}

// GetLogJSON reports whether logs are emitted as JSON
func GetLogJSON() bool {
	return viper.GetBool(KeyLogJSON)
}

// GetLogLevel returns the minimum log level
func GetLogLevel() string {
	return viper.GetString(KeyLogLevel)
}

// GetSkipText returns the transcript text recorded for skipped questions
func GetSkipText() string {
	if s := strings.TrimSpace(viper.GetString(KeySkipText)); s != "" {
		return s
	}
	return defaultSkipText
}

// GetAnswersDir returns the directory where finished interviews are saved
func GetAnswersDir() string {
	return viper.GetString(KeyAnswersDir)
}
