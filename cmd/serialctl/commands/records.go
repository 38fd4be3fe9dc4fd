package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/serialpro/cmd/serialctl/output"
	"github.com/mamadbah2/serialpro/internal/domain/models"
)

var recordInput models.RecordInput

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find records by serial substring",
	Long: `Search shipment records whose serial contains the term, ignoring case.

Examples:
  serialctl search sn-2023
  serialctl search 045 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := newClient().SearchRecords(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(records)
		}
		if len(records) == 0 {
			output.Warning("no records match %q", args[0])
			return nil
		}
		output.Header("%d record(s)", len(records))
		output.Row("SERIAL", "PRODUCT", "CUSTOMER", "SHIP DATE", "STATUS")
		for _, r := range records {
			output.Row(r.Serial, r.ProductID, r.Customer, r.ShipDate, r.Status)
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a shipped serial number",
	Long: `Register a shipment record. Serial and customer are required; the ship
date defaults to today and the status to 출고완료.

Examples:
  serialctl register --serial SN-1 --product p1 --customer "미래테크"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := newClient().CreateRecord(cmd.Context(), recordInput)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(rec)
		}
		output.Success("registered %s (id %s)", rec.Serial, strconv.FormatInt(rec.ID, 10))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVar(&recordInput.Serial, "serial", "", "Serial number (required)")
	registerCmd.Flags().StringVar(&recordInput.ProductID, "product", "", "Product id")
	registerCmd.Flags().StringVar(&recordInput.Customer, "customer", "", "Customer (required)")
	registerCmd.Flags().StringVar(&recordInput.ShipDate, "date", "", "Ship date, YYYY-MM-DD")
	registerCmd.Flags().StringVar(&recordInput.Memo, "memo", "", "Free-form note")
	registerCmd.Flags().StringVar(&recordInput.Status, "status", "", "Shipment status")
}
