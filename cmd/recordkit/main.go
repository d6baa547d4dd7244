package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "recordkit",
		Short: "Record lifecycle dispatch and security-aware query tooling",
		Long: `Recordkit routes record-mutation events through per-entity lifecycle
handlers and builds authorization-aware read queries for entity types.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(describeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
