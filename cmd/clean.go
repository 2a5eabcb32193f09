package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/config"
	"github.com/pcsweep/pcsweep/internal/core"
	"github.com/pcsweep/pcsweep/internal/scan"
	"github.com/pcsweep/pcsweep/internal/sweep"
)

var (
	cleanDryRun bool
	cleanYes    bool
	cleanDeep   bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <tool>",
	Short: "Scan a tool's targets and delete what it finds",
	Long: `Scan one file tool (temp, junk, adobe, system, large, videos) and
delete the findings after confirmation. Every item is attempted
independently; locked or protected files are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if cleanDeep {
			settings.DeepScan = true
		}

		kind, err := scan.KindFromName(args[0])
		if err != nil {
			return err
		}
		tool, err := scan.ToolFor(kind, settings)
		if err != nil {
			return err
		}

		result, err := tool.Scan(cmd.Context())
		if err != nil {
			return err
		}
		if len(result.Items) == 0 {
			fmt.Printf("%s: nothing to clean.\n", kind.Title())
			return nil
		}

		fmt.Printf("%s: %d items, %s\n", kind.Title(), len(result.Items), core.FormatSize(result.TotalSize))
		if !cleanYes && !cleanDryRun {
			if !confirm(fmt.Sprintf("Delete %d items (%s)?", len(result.Items), core.FormatSize(result.TotalSize))) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		log := openAuditLog()
		defer log.Close()

		ex := &sweep.Executor{
			DryRun: cleanDryRun,
			Guard:  config.NeverDeletePaths(),
			Log:    log,
		}
		report := ex.DeleteFiles(cmd.Context(), result.Items)
		printDeletionReport(report, cleanDryRun)
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Preview deletions without touching anything")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip the confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanDeep, "deep", false, "Scan all mounted drives without a depth limit")
}

// confirm asks a y/N question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printDeletionReport(report *sweep.Report, dryRun bool) {
	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	fmt.Printf("%s %d of %d, %s freed.\n", verb, report.Succeeded, report.Attempted, core.FormatSize(report.FreedSize))
	for _, f := range report.Failures {
		fmt.Printf("  failed: %s (%s)\n", f.Path, f.Reason)
	}
}
