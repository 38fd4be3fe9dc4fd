package commands

import (
	"github.com/spf13/cobra"

	"github.com/mamadbah2/serialpro/cmd/serialctl/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().Stats(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(stats)
		}

		output.Header("Dashboard")
		output.Muted("total records: %d", stats.TotalRecords)
		output.Muted("shipped in the last 30 days: %d", stats.RecentRecords)
		output.Muted("products: %d", stats.ProductCount)

		output.Header("Top products")
		for _, p := range stats.TopProducts {
			output.Muted("%s: %d", p.Name, p.Count)
		}

		output.Header("Recent activity")
		for _, a := range stats.Recent {
			output.Row(a.Serial, a.ProductName, a.Customer, a.ShipDate)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
