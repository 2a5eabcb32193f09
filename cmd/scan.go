package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/config"
	"github.com/pcsweep/pcsweep/internal/core"
	"github.com/pcsweep/pcsweep/internal/scan"
)

var scanDeep bool

var scanCmd = &cobra.Command{
	Use:   "scan [tool]",
	Short: "Find removable files without deleting anything",
	Long: `Scan one tool's targets and list what it would remove. Tools:
temp, junk, adobe, system, large, videos. Without an argument every
file tool runs and a per-tool summary is printed.

Duplicates and the registry have their own commands ('dedupe' and
'registry audit').`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if scanDeep {
			settings.DeepScan = true
		}

		if len(args) == 0 {
			return scanAll(cmd, settings)
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

		items := result.Items
		sort.Slice(items, func(i, j int) bool { return items[i].Size > items[j].Size })
		for _, it := range items {
			fmt.Printf("%10s  %s\n", core.FormatSize(it.Size), it.Path)
		}
		fmt.Printf("\n%s: %d items, %s", kind.Title(), len(items), core.FormatSize(result.TotalSize))
		if result.Skipped > 0 {
			fmt.Printf(" (%d entries skipped)", result.Skipped)
		}
		fmt.Println()

		if debug {
			for _, w := range result.Warnings {
				debugf("%s", w)
			}
		}
		return nil
	},
}

func scanAll(cmd *cobra.Command, settings config.Settings) error {
	var grandItems int
	var grandSize int64

	for _, kind := range scan.FileKinds {
		tool, err := scan.ToolFor(kind, settings)
		if err != nil {
			return err
		}
		result, err := tool.Scan(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-18s %6d items  %10s", kind.Title(), len(result.Items), core.FormatSize(result.TotalSize))
		if result.Skipped > 0 {
			fmt.Printf("  (%d skipped)", result.Skipped)
		}
		fmt.Println()
		grandItems += len(result.Items)
		grandSize += result.TotalSize
	}

	fmt.Printf("\nTotal: %d items, %s reclaimable\n", grandItems, core.FormatSize(grandSize))
	return nil
}

func init() {
	scanCmd.Flags().BoolVar(&scanDeep, "deep", false, "Scan all mounted drives without a depth limit")
}
