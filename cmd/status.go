package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/core"
	"github.com/pcsweep/pcsweep/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show disk and memory usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := status.Collect()
		if err != nil {
			return err
		}

		fmt.Println(core.WindowsVersionString())
		fmt.Println()

		for _, d := range report.Drives {
			name := d.Device
			if d.VolumeName != "" {
				name += " (" + d.VolumeName + ")"
			}
			fmt.Printf("%-24s %10s free of %-10s %5.1f%% used  %s\n",
				name,
				core.FormatSize(int64(d.Free)),
				core.FormatSize(int64(d.Total)),
				d.UsedPercent(),
				d.FileSystem)
		}

		fmt.Printf("\nMemory: %s available of %s (%.1f%% used)\n",
			core.FormatSize(int64(report.MemAvailable)),
			core.FormatSize(int64(report.MemTotal)),
			report.MemUsedPercent)
		return nil
	},
}
