package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/marginalia"
)

var (
	cfgFile   string
	storePath string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marginalia",
	Short: "Annotations in the margins of your codebase",
	Long: `Marginalia attaches free-text notes to positions or spans inside source
files without modifying those files. Notes anchor to coordinates (and, for
selections, to the selected text), survive reformatting, and report when the
code they point at has drifted.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.marginalia/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "annotation snapshot file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	viper.SetDefault("store.path", defaultStorePath())
	viper.SetDefault("store.backup", true)
	viper.SetDefault("display.stale", "mark") // mark | hide

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".marginalia"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("MARGINALIA")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "annotations.json"
	}
	return filepath.Join(home, ".marginalia", "annotations.json")
}

// openSession builds a session from the effective configuration and loads
// the snapshot.
func openSession(ctx context.Context) (*marginalia.Session, error) {
	session, err := marginalia.New(viper.GetString("store.path"),
		marginalia.WithBackup(viper.GetBool("store.backup")),
		marginalia.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, err
	}
	if err := session.Open(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// documentID resolves a user-supplied file path to the stable identity
// annotations are keyed by.
func documentID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}
