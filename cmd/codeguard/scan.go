package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codeguard-core/codeguard/internal/docsrc"
	"github.com/codeguard-core/codeguard/internal/guard"
	"github.com/codeguard-core/codeguard/internal/tagparser"
)

var scanConfigPath string

// scanConfig is the optional --config file's shape: an extension-to-
// languageId map (overriding/extending defaultExtensions) and a list of
// glob patterns to skip.
type scanConfig struct {
	Extensions map[string]string `yaml:"extensions"`
	Exclude    []string          `yaml:"exclude"`
}

// defaultExtensions maps recognized file extensions to the languageId the
// scope resolvers and comment classifier key their rules on.
var defaultExtensions = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".sh":   "bash",
	".bash": "bash",
	".html": "html",
	".yaml": "yaml",
	".yml":  "yaml",
}

// scanCmd walks a directory, runs the guard processor over every
// recognized file, and prints a per-file summary of guarded line ranges.
// It exercises C1-C6 without the protocol layer (SPEC_FULL.md §1.4).
var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Summarize guarded line ranges under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadScanConfig(scanConfigPath)
		if err != nil {
			return err
		}
		extensions := mergeExtensions(cfg.Extensions)

		processor := guard.New()
		return filepath.WalkDir(args[0], func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if excluded(path, cfg.Exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if excluded(path, cfg.Exclude) {
				return nil
			}
			languageID, ok := extensions[strings.ToLower(filepath.Ext(path))]
			if !ok {
				return nil
			}
			return scanFile(cmd, processor, path, languageID)
		})
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanConfigPath, "config", "", "optional YAML config overriding extensions/exclude patterns")
}

func loadScanConfig(path string) (scanConfig, error) {
	if path == "" {
		return scanConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scanConfig{}, fmt.Errorf("read scan config %s: %w", path, err)
	}
	var cfg scanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return scanConfig{}, fmt.Errorf("parse scan config %s: %w", path, err)
	}
	return cfg, nil
}

func mergeExtensions(overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaultExtensions)+len(overrides))
	for k, v := range defaultExtensions {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

func scanFile(cmd *cobra.Command, processor *guard.Processor, path, languageID string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	src := docsrc.New(string(content), languageID)
	tags := processor.Parse(src)
	if len(tags) == 0 {
		return nil
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i].LineNumber < tags[j].LineNumber })
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
	for _, t := range tags {
		fmt.Fprintf(cmd.OutOrStdout(), "  line %d-%d: ai=%s human=%s\n",
			t.ScopeStart, t.ScopeEnd, permissionLabel(t.AIPermission), permissionLabel(t.HumanPermission))
	}
	return nil
}

// permissionLabel renders a tag's own declared permission for one target,
// or "inherit" when the tag left that target unset (its effective value
// then comes from whatever guard is active above it, per spec.md §4.6).
func permissionLabel(p tagparser.Permission) string {
	if p == "" {
		return "inherit"
	}
	return string(p)
}
