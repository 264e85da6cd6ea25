package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "credstorectl",
	Short: "Manage the credstore credential registry",
	Long: `credstorectl manages the credstore credential registry server.

It runs the HTTP API server, manages the database schema, generates
encryption keys and inspects the effective configuration.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
