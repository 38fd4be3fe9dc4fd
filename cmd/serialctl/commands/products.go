package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/serialpro/cmd/serialctl/output"
	"github.com/mamadbah2/serialpro/internal/domain/models"
)

var (
	productInput models.ProductInput
	assumeYes    bool
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with their shipment counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := newClient().ListProducts(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(products)
		}
		output.Row("ID", "CODE", "NAME", "CATEGORY", "SHIPMENTS")
		for _, p := range products {
			output.Row(p.ID, p.Code, p.Name, p.Category, strconv.Itoa(p.RecordCount))
		}
		return nil
	},
}

var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newClient().CreateProduct(cmd.Context(), productInput)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(p)
		}
		output.Success("added %s (id %s)", p.Name, p.ID)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product after confirmation",
	Long: `Delete a product. Shipment records that reference it are kept and
show as "Unknown Product" afterwards.

Examples:
  serialctl products delete p3
  serialctl products delete p3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := cmd.Context()
		if err := client.RequestDeleteProduct(ctx, args[0]); err != nil {
			return err
		}

		if !assumeYes && !confirm(cmd, "Delete product "+args[0]+"? Existing records keep the dangling reference.") {
			if err := client.CancelDeleteProduct(ctx); err != nil {
				return err
			}
			output.Muted("cancelled")
			return nil
		}

		id, err := client.ConfirmDeleteProduct(ctx)
		if err != nil {
			return err
		}
		output.Success("deleted %s", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsAddCmd, productsDeleteCmd)

	productsAddCmd.Flags().StringVar(&productInput.Name, "name", "", "Product name (required)")
	productsAddCmd.Flags().StringVar(&productInput.Code, "code", "", "Product code")
	productsAddCmd.Flags().StringVar(&productInput.Category, "category", "", "Category")

	productsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}
