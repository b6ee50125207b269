package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

// stdout returns the command's output writer; tests call run functions
// with a nil command.
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func stdin(cmd *cobra.Command) io.Reader {
	if cmd == nil {
		return os.Stdin
	}
	return cmd.InOrStdin()
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func writeToon(w io.Writer, v any) error {
	output, err := gotoon.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode Toon: %w", err)
	}
	fmt.Fprintln(w, output)
	return nil
}
