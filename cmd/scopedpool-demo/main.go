// Command scopedpool-demo exercises the scoped-pool library from the
// outside with a small cobra CLI offering run/stress/serve-metrics
// subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	if err := buildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildCLI() *cobra.Command {
	root := &cobra.Command{
		Use:     "scopedpool-demo",
		Short:   "scoped-pool: a scoped thread pool for Go",
		Version: "1.0.0",
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")

	root.AddCommand(buildRunCommand())
	root.AddCommand(buildStressCommand())
	root.AddCommand(buildServeMetricsCommand())

	return root
}
