package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage marginalia configuration",
	Long: `Manage marginalia configuration.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (MARGINALIA_*)
3. Config file (~/.marginalia/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n", file)
		} else {
			fmt.Fprintln(os.Stderr, "No configuration file found (using defaults)")
		}

		effective := map[string]any{
			"store": map[string]any{
				"path":   viper.GetString("store.path"),
				"backup": viper.GetBool("store.backup"),
			},
			"display": map[string]any{
				"stale": viper.GetString("display.stale"),
			},
		}
		data, err := yaml.Marshal(effective)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".marginalia")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		content := `# marginalia configuration
store:
  # Where the annotation snapshot lives.
  path: ` + defaultStorePath() + `
  # Duplicate the previous snapshot to <path>.bak before each overwrite.
  backup: true

display:
  # What to do with annotations whose anchors no longer match:
  # "mark" shows them with an outdated marker, "hide" drops them from listings.
  stale: mark
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Printf("Created %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
