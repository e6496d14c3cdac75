package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/customerdata/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "customerdata",
	Short: "Customer, order and product dataset service",
	Long: `customerdata imports an XML dataset of customers, orders and products
into Redis and serves lookups, searches and aggregations over HTTP.

The configuration file is selected by the ENV variable (default: local).`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
