package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/serialpro/pkg/clients/serialapi"
)

const defaultServerURL = "http://localhost:8080"

var (
	// Global flags
	serverURL  string
	jsonOutput bool

	// stdin feeds confirmation prompts.
	stdin io.Reader = os.Stdin
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "serialctl",
	Short: "serialctl - shipment serial tracker client",
	Long: `serialctl talks to a running serialpro server.

Features:
  - Register shipped serial numbers and search them
  - Manage the product catalog
  - Dashboard statistics
  - JSON backup export and restore, CSV report export`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	def := os.Getenv("SERIALPRO_URL")
	if def == "" {
		def = defaultServerURL
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", def, "serialpro server URL (env SERIALPRO_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func newClient() *serialapi.APIClient {
	return serialapi.NewClient(serverURL)
}

// confirm asks a yes/no question on stdin. Anything but y/yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
