package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "amlsim",
		Short: "AML transaction graph simulator",
		Long: `amlsim generates synthetic banking transaction logs for training and
evaluating anti-money-laundering detection models.

It loads an account graph, normal behavior groups and alert (typology)
groups from CSV files, runs a deterministic step simulation and writes the
resulting transaction log to the configured sinks.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("amlsim version %s\n", version)
		},
	}
}
