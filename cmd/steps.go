package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/interview/internal/options"
	"github.com/pders01/interview/internal/planner"
)

var (
	stepsJSON bool
	stepsToon bool
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the interview step table",
	Long: `List every step of the built-in interview in order, with its section,
input type and whether it is conditional.

Examples:
  interview steps
  interview steps --json
  interview steps --toon`,
	RunE: runSteps,
}

func init() {
	rootCmd.AddCommand(stepsCmd)

	stepsCmd.Flags().BoolVar(&stepsJSON, "json", false, "Output as JSON")
	stepsCmd.Flags().BoolVar(&stepsToon, "toon", false, "Output in LLM-friendly toon format")
}

type stepView struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Section     string   `json:"section"`
	Prompt      string   `json:"prompt"`
	Input       string   `json:"input,omitempty"`
	Options     []string `json:"options,omitempty"`
	Optional    bool     `json:"optional,omitempty"`
	Conditional bool     `json:"conditional,omitempty"`
}

func runSteps(cmd *cobra.Command, args []string) error {
	steps := planner.BenefitsSteps()
	views := make([]stepView, 0, len(steps))
	for _, s := range steps {
		view := stepView{
			ID:          s.ID,
			Type:        string(s.Type),
			Section:     s.Section.Title,
			Prompt:      s.Prompt,
			Conditional: s.Conditional(),
		}
		if !s.IsInfo() {
			view.Input = string(s.InputType())
			view.Options = options.Labels(s.Options)
			view.Optional = s.Optional
		}
		views = append(views, view)
	}

	out := stdout(cmd)
	if stepsJSON {
		return writeJSON(out, views)
	}
	if stepsToon {
		return writeToon(out, views)
	}

	fmt.Fprintf(out, "%d step(s):\n\n", len(views))
	for _, v := range views {
		kind := v.Type
		if v.Input != "" {
			kind = v.Input
		}
		flags := ""
		if v.Conditional {
			flags += " [conditionnelle]"
		}
		if v.Optional {
			flags += " [facultative]"
		}
		fmt.Fprintf(out, "  %-28s %-12s %s%s\n", v.ID, kind, v.Section, flags)
	}
	return nil
}
