package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeguard-core/codeguard/internal/theme"
)

// validateThemeCmd validates a theme JSON document against the rules in
// spec.md §6 without going through the worker protocol.
//
// Examples:
//
//	codeguard validate-theme my-theme.json
var validateThemeCmd = &cobra.Command{
	Use:   "validate-theme <file>",
	Short: "Validate a theme JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		var t theme.Theme
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		if err := t.Validate(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "invalid theme: %v\n", err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid theme\n", args[0])
		return nil
	},
}
