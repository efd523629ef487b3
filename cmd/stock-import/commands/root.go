package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	migrate bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stock-import",
	Short: "Maintain the stock catalog of the wishlist service",
	Long: `stock-import loads the exchange's listed-stock dump into the stock catalog.

Database and Redis settings are read from the same environment variables
(and .env file) as wishlist-api.`,
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
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", false, "Apply the schema before running")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
