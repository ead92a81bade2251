package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codeguard-core/codeguard/internal/protocol"
	"github.com/codeguard-core/codeguard/internal/theme"
	"github.com/codeguard-core/codeguard/pkg/logging"
)

var (
	workerMinVersion string
	workerLogJSON    bool
	workerLogDir     string
	workerThemesDir  string
)

// workerCmd runs the C8 Worker Loop over stdin/stdout: the primary
// contract a host editor speaks (spec.md §4.8/§6).
//
// Examples:
//
//	codeguard worker
//	codeguard worker --log-json --log-dir ~/.codeguard/logs
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the guard worker loop over stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(logging.Config{
			Level:   logging.LevelInfo,
			Service: "worker",
			JSON:    workerLogJSON,
			LogDir:  workerLogDir,
		})
		defer log.Close()

		themesDir := workerThemesDir
		if themesDir == "" {
			themesDir = defaultThemesDir()
		}
		themeStore, err := theme.New(themesDir, coreVersion)
		if err != nil {
			log.Error("failed to open theme store", "error", err.Error(), "dir", themesDir)
			return err
		}

		minCompatible := coreMinCompatible
		if workerMinVersion != "" {
			minCompatible = workerMinVersion
		}

		srv := protocol.NewServer(coreVersion, minCompatible, themeStore, log)
		log.Info("worker starting", "version", coreVersion, "minCompatible", minCompatible)
		return srv.Loop(os.Stdin, os.Stdout)
	},
}

func init() {
	workerCmd.Flags().StringVar(&workerMinVersion, "min-version", "", "minimum compatible version to report")
	workerCmd.Flags().BoolVar(&workerLogJSON, "log-json", false, "emit stderr logs as JSON")
	workerCmd.Flags().StringVar(&workerLogDir, "log-dir", "", "additional directory to write log files to")
	workerCmd.Flags().StringVar(&workerThemesDir, "themes-dir", "", "override the per-user theme config directory")
}

// defaultThemesDir returns the stable per-user directory the theme store
// persists to when --themes-dir is not given.
func defaultThemesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codeguard/themes"
	}
	return filepath.Join(home, ".codeguard", "themes")
}
