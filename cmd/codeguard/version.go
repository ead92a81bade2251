package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the core version and compatibility baseline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codeguard %s (minCompatible %s)\n", coreVersion, coreMinCompatible)
	},
}
