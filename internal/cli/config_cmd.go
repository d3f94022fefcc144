package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmql/fmql/internal/config"
	"github.com/fmql/fmql/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()

		if isJSONOutput() {
			outputSuccess(struct {
				Path          string `json:"path"`
				Exists        bool   `json:"exists"`
				DefaultFormat string `json:"default_format"`
				ShowHidden    bool   `json:"show_hidden"`
				Accent        string `json:"accent,omitempty"`
				CodeTheme     string `json:"code_theme,omitempty"`
			}{
				Path:          resolvedConfigPath(),
				Exists:        configFileExists(),
				DefaultFormat: c.Format(),
				ShowHidden:    c.ShowHidden,
				Accent:        c.UI.Accent,
				CodeTheme:     c.UI.CodeTheme,
			}, nil)
			return nil
		}

		fmt.Println(ui.Header("Configuration"))
		fmt.Printf("  file:           %s", ui.FilePath(resolvedConfigPath()))
		if !configFileExists() {
			fmt.Printf(" %s", ui.Hint("(not created)"))
		}
		fmt.Println()
		fmt.Printf("  default_format: %s\n", c.Format())
		fmt.Printf("  show_hidden:    %t\n", c.ShowHidden)
		if c.UI.Accent != "" {
			fmt.Printf("  ui.accent:      %s\n", c.UI.Accent)
		}
		if c.UI.CodeTheme != "" {
			fmt.Printf("  ui.code_theme:  %s\n", c.UI.CodeTheme)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented config file template",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault()
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Path string `json:"path"`
			}{path}, nil)
			return nil
		}

		fmt.Println(ui.Successf("config at %s", ui.FilePath(path)))
		return nil
	},
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func configFileExists() bool {
	_, err := os.Stat(resolvedConfigPath())
	return err == nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
