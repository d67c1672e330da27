// Package main provides the musial command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/musial-go/musial/internal/musialerr"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		kind, _ := musialerr.KindOf(err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", kind, err)
		return musialerr.ExitCode(err)
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "musial",
		Short: "Aggregate per-sample variant calls into an allele/proteoform catalog",
		Long: `musial builds a catalog of alleles and proteoforms across a cohort of
samples by reconstructing each sample's sequence at every configured
reference feature and aggregating the results (the BUILD module).`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Example: `  # Run a build from a configuration document
  musial build --config build.yaml

  # Inspect the loaded configuration
  musial config --config build.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
