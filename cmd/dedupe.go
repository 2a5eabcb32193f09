package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/config"
	"github.com/pcsweep/pcsweep/internal/core"
	"github.com/pcsweep/pcsweep/internal/dupes"
	"github.com/pcsweep/pcsweep/internal/sweep"
)

var (
	dedupeDelete  bool
	dedupeDryRun  bool
	dedupeYes     bool
	dedupeMinSize string
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find duplicate files in the user profile",
	Long: `Group identical files under Documents, Downloads, Pictures, Music,
and Videos by content hash. Only files with a matching size are hashed.
The oldest copy of each group is kept; with --delete the rest are
removed after confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		minSize, err := core.ParseSize(dedupeMinSize)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}

		var bar *progressbar.ProgressBar
		d := &dupes.Detector{
			Roots:   config.DuplicateRoots(),
			MinSize: minSize,
			Progress: func(done, total int, path string) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("hashing"),
						progressbar.OptionClearOnFinish(),
						progressbar.OptionShowCount(),
					)
				}
				_ = bar.Set(done)
			},
		}

		report, err := d.Detect(cmd.Context())
		if err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Finish()
		}

		if len(report.Groups) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}

		for _, g := range report.Groups {
			fmt.Printf("%s each, %s wasted:\n", core.FormatSize(g.Size), core.FormatSize(g.WastedSize()))
			fmt.Printf("  keep:   %s\n", g.Keep().Path)
			for _, it := range g.Redundant() {
				fmt.Printf("  remove: %s\n", it.Path)
			}
		}
		fmt.Printf("\n%d groups, %d files hashed, %s reclaimable.\n",
			len(report.Groups), report.FilesHashed, core.FormatSize(report.WastedSize))

		if debug {
			for _, w := range report.Warnings {
				debugf("%s", w)
			}
		}

		if !dedupeDelete {
			return nil
		}

		var redundant int
		for _, g := range report.Groups {
			redundant += len(g.Redundant())
		}
		if !dedupeYes && !dedupeDryRun {
			if !confirm(fmt.Sprintf("Delete %d redundant copies (%s)?", redundant, core.FormatSize(report.WastedSize))) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		log := openAuditLog()
		defer log.Close()

		ex := &sweep.Executor{
			DryRun: dedupeDryRun,
			Guard:  config.NeverDeletePaths(),
			Log:    log,
		}
		delReport := &sweep.Report{}
		for _, g := range report.Groups {
			r := ex.DeleteFiles(cmd.Context(), g.Redundant())
			delReport.Attempted += r.Attempted
			delReport.Succeeded += r.Succeeded
			delReport.Failed += r.Failed
			delReport.FreedSize += r.FreedSize
			delReport.Failures = append(delReport.Failures, r.Failures...)
		}
		printDeletionReport(delReport, dedupeDryRun)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeDelete, "delete", false, "Delete redundant copies, keeping the oldest of each group")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Preview deletions without touching anything")
	dedupeCmd.Flags().BoolVarP(&dedupeYes, "yes", "y", false, "Skip the confirmation prompt")
	dedupeCmd.Flags().StringVar(&dedupeMinSize, "min-size", "1KB", "Ignore files smaller than this")
}
