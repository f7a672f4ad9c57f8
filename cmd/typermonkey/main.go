// Package main provides the CLI entrypoint for typermonkey.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typermonkey/internal/config"
	"github.com/verte-zerg/typermonkey/internal/logger"
	"github.com/verte-zerg/typermonkey/internal/store"
)

var (
	logLevel string
	cliLog   = logger.Stderr(log.InfoLevel)
	fileCfg  config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "typermonkey",
		Short:             "Watch a monkey type and collect the words it finds",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadSettings,
		RunE:              runMonkeyCmd,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	addMonkeyFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newWordlistCmd())
	rootCmd.AddCommand(newDictCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newProfileCmd())
	return rootCmd
}

// loadSettings reads the config file and sets up CLI logging before any
// command runs.
func loadSettings(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	applyConfig(cmd, "log-level", &logLevel, fileCfg.UI.LogLevel)
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	cliLog.SetLevel(level)
	return nil
}

// applyConfig copies a config value into target unless the flag was given.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		cliLog.Warn("failed to close db", "err", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typermonkey configuration
# Uncomment a value to enable it. CLI flags override config values.

[monkey]
# lang = %q              # Word list language
# speed-ms = %d            # Milliseconds between keystrokes
# duration = 0              # Countdown in minutes, 0 for a stopwatch
# tiebreak = %q        # Leading word among equal lengths: "recent" or "first"
# seed = 0                  # Fixed random seed, 0 for a fresh one each run
# chars-per-line = %d       # Paper width
# lines-per-page = %d       # Paper height

[ui]
# stars = false             # Show the GitHub star badge
# repo = %q
# log-level = "info"        # debug, info, warn, error
`,
		defaultLang,
		defaultSpeedMs,
		defaultTieBreak,
		defaultCols,
		defaultLines,
		defaultRepo,
	)
}
