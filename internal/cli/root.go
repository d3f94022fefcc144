// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fmql/fmql/internal/config"
	"github.com/fmql/fmql/internal/ui"
)

var (
	// Global flags
	configPath string
	formatFlag string

	// Resolved values
	cfg *config.Config
)

// Supported output formats.
const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fmql",
	Short: "fmql - query the filesystem with SQL",
	Long: `fmql runs SQL-shaped queries against the filesystem.

SELECT discovers files and directories with WHERE predicates over their
metadata; UPDATE changes permission bits of everything that matches.
Results can be sorted, grouped, and rendered as text, table, json, or yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		if formatFlag == "" {
			formatFlag = cfg.Format()
		}
		switch formatFlag {
		case formatText, formatTable, formatJSON, formatYAML:
		default:
			return fmt.Errorf("unknown format %q (expected text, table, json, or yaml)", formatFlag)
		}
		if jsonOutput {
			formatFlag = formatJSON
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: text, table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// outputFormat returns the resolved output format for this invocation.
func outputFormat() string {
	if formatFlag == "" {
		return formatText
	}
	return formatFlag
}

func loadGlobalConfig() (*config.Config, error) {
	var (
		loadedCfg *config.Config
		err       error
	)
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, nil
}
