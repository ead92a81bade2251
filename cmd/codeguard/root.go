package main

import (
	"github.com/spf13/cobra"
)

// coreVersion and coreMinCompatible are the values the worker reports to
// the version command and the startup banner (spec.md §6).
const (
	coreVersion       = "1.0.0"
	coreMinCompatible = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:   "codeguard",
	Short: "Parses @guard annotations and serves the codeguard worker protocol",
	Long: `codeguard recognizes @guard annotations in source files, resolves
them to line ranges, and evaluates per-line AI/human read, write, and
context permissions.

Run without a subcommand's help for usage, or "codeguard worker" to
start the framed stdio protocol a host editor talks to.`,
}

func init() {
	rootCmd.AddCommand(workerCmd, scanCmd, validateThemeCmd, versionCmd)
}
