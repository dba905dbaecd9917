package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"autocrat/go-client/internal/printer"
)

func lutsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "luts",
		Short: "Resolve the configured address lookup tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.reportMetrics()

			for i, lut := range s.client.LookupTables() {
				status := "active"
				if !lut.State.IsActive() {
					status = fmt.Sprintf("deactivated at slot %d", lut.State.DeactivationSlot)
				}
				printer.Info("%d. %s (%d addresses, %s)\n", i+1, lut.Key, len(lut.State.Addresses), status)
			}
			printer.Success("%d lookup tables resolved\n", len(s.client.LookupTables()))
			return nil
		},
	}
}
