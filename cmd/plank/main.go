package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/plank/internal/cli"
	"github.com/example/plank/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "plank",
		Short:   "plank - hierarchical planning records",
		Version: version.String(),
		Long: `plank manages planning records in a strict feature -> phase -> session -> task
hierarchy. Every mutation is recorded in an append-only change log, records
carry abstraction scopes, and any logged state can be rolled back to.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.RecordCmd())
	rootCmd.AddCommand(cli.ScopeCmd())
	rootCmd.AddCommand(cli.RollbackCmd())
	rootCmd.AddCommand(cli.CiteCmd())
	rootCmd.AddCommand(cli.LogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
