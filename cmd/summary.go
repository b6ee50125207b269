package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/interview/internal/answerfile"
	"github.com/pders01/interview/internal/planner"
	"github.com/pders01/interview/internal/validate"
)

var summaryNow string

var summaryCmd = &cobra.Command{
	Use:   "summary <answers.toml>",
	Short: "Print the summary of an answer file",
	Long: `Replay saved answers through the built-in step table and print the
summary that would be handed over at the end of the interview. Ages are
computed relative to --now (default: today).

Examples:
  interview summary answers.toml
  interview summary answers.toml --now 2025-07-14`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryNow, "now", "", "Reference date for ages (YYYY-MM-DD)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	now := time.Now()
	if summaryNow != "" {
		parsed, err := validate.ParseDate(summaryNow)
		if err != nil {
			return fmt.Errorf("invalid --now date format (use YYYY-MM-DD): %w", err)
		}
		now = parsed
	}

	answers, err := answerfile.Load(args[0])
	if err != nil {
		return err
	}

	session := planner.NewSession(planner.BenefitsSteps(), nil)
	session.Fill(answers)
	if step, ok := session.Current(); ok {
		fmt.Fprintf(os.Stderr, "Warning: interview incomplete, no answer for %s\n", step.ID)
	}

	fmt.Fprintln(stdout(cmd), session.Summary(now))
	return nil
}
