package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcsweep/pcsweep/internal/netflush"
)

var flushdnsCmd = &cobra.Command{
	Use:   "flushdns",
	Short: "Clear the OS DNS resolver cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := openAuditLog()
		defer log.Close()

		result := netflush.Flush(cmd.Context())
		if !result.OK {
			log.Event("dns flush failed: %s", result.Reason)
			return errors.New("DNS flush failed: " + result.Reason)
		}
		log.Event("dns flush succeeded")
		fmt.Println("DNS cache flushed.")
		return nil
	},
}
