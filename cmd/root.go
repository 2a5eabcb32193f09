// Package cmd wires the CLI. Each subcommand lives in its own file; shared
// flags and the settings/log helpers live here.
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/config"
	"github.com/pcsweep/pcsweep/internal/oplog"
	"github.com/pcsweep/pcsweep/internal/ui"
)

var (
	// Global flags
	debug      bool
	configPath string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "pcsweep",
	Short: "Clean up a Windows machine safely",
	Long: `PCSweep finds and removes temp files, junk, stale caches, old videos,
duplicates, and dead registry entries. Nothing is deleted without an
explicit confirmation, and registry cleaning writes a .reg backup first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a subcommand: interactive UI on a terminal, help otherwise.
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return cmd.Help()
		}
		return runInteractive()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default %APPDATA%\\pcsweep\\config.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(flushdnsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// loadSettings reads the config file named by --config, or the default path.
func loadSettings() (config.Settings, error) {
	path := configPath
	if path == "" {
		path = config.DefaultSettingsPath()
	}
	return config.LoadSettings(path)
}

// openAuditLog opens the audit log, falling back to a no-op logger so a
// read-only profile never blocks an operation.
func openAuditLog() *oplog.Logger {
	log, err := oplog.Open(config.LogPath())
	if err != nil {
		debugf("audit log unavailable: %v", err)
		return oplog.Nop()
	}
	return log
}

func debugf(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}

// runInteractive launches the full-screen tabbed UI.
func runInteractive() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	log := openAuditLog()
	defer log.Close()

	p := tea.NewProgram(ui.New(settings, log), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
