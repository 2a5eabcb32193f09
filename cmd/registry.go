package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/config"
	"github.com/pcsweep/pcsweep/internal/core"
	"github.com/pcsweep/pcsweep/internal/winreg"
)

var (
	regDryRun   bool
	regYes      bool
	regNoBackup bool
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Audit and clean stale registry entries",
	Long: `Inspect startup entries, recent-document lists, the MuiCache, and
uninstall entries for references to files that no longer exist. The
audit is read-only; 'registry clean' deletes findings and writes a
.reg backup first unless disabled.`,
}

var registryAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List stale registry entries without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		report := runAudit(cmd.Context())
		if len(report.Findings) == 0 {
			fmt.Println("No stale registry entries found.")
			return nil
		}
		for _, f := range report.Findings {
			fmt.Printf("%s\n    %s\n", f.DisplayPath(), f.Reason)
		}
		fmt.Printf("\n%d stale entries.\n", len(report.Findings))
		return nil
	},
}

var registryCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete stale registry entries (backup written first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		if !core.IsAdmin() {
			fmt.Println("Note: not running as administrator; HKLM entries may fail to delete.")
		}

		report := runAudit(cmd.Context())
		if len(report.Findings) == 0 {
			fmt.Println("No stale registry entries found.")
			return nil
		}
		for _, f := range report.Findings {
			fmt.Printf("%s\n    %s\n", f.DisplayPath(), f.Reason)
		}

		if !regYes && !regDryRun {
			if !confirm(fmt.Sprintf("Delete %d registry entries?", len(report.Findings))) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		log := openAuditLog()
		defer log.Close()

		if settings.RegistryBackup && !regNoBackup && !regDryRun {
			backup, err := winreg.WriteBackup(config.BackupDir(), report.Findings, log)
			if err != nil {
				// No backup, no deletion.
				return fmt.Errorf("registry backup failed, nothing deleted: %w", err)
			}
			fmt.Printf("Backup written to %s\n", backup.Path)
		}

		clean := winreg.CleanFindings(cmd.Context(), report.Findings, regDryRun, log)
		verb := "Removed"
		if regDryRun {
			verb = "Would remove"
		}
		fmt.Printf("%s %d of %d entries.\n", verb, clean.Succeeded, clean.Attempted)
		for _, f := range clean.Failures {
			fmt.Printf("  failed: %s (%s)\n", f.Path, f.Reason)
		}
		return nil
	},
}

func runAudit(ctx context.Context) *winreg.AuditReport {
	var a winreg.Auditor
	report := a.Audit(ctx)
	if debug {
		for _, w := range report.Warnings {
			debugf("%s", w)
		}
	}
	return report
}

func init() {
	registryCleanCmd.Flags().BoolVar(&regDryRun, "dry-run", false, "Preview deletions without touching the registry")
	registryCleanCmd.Flags().BoolVarP(&regYes, "yes", "y", false, "Skip the confirmation prompt")
	registryCleanCmd.Flags().BoolVar(&regNoBackup, "no-backup", false, "Skip the .reg backup (not recommended)")

	registryCmd.AddCommand(registryAuditCmd)
	registryCmd.AddCommand(registryCleanCmd)
}
