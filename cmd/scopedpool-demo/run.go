package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	scopedpool "github.com/ChuLiYu/scoped-pool"
	"github.com/ChuLiYu/scoped-pool/internal/config"
)

func buildRunCommand() *cobra.Command {
	var workloads int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a sample scoped workload against a fresh pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(workloads)
		},
	}

	cmd.Flags().IntVar(&workloads, "workloads", 1, "number of independent Scoped workloads to run concurrently")

	return cmd
}

func runDemo(workloads int) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	p := scopedpool.New(cfg.Pool.Size)
	defer p.Shutdown()

	slog.Info("pool ready", "pool_id", p.ID(), "workers", p.Workers())

	var g errgroup.Group
	for w := 0; w < workloads; w++ {
		w := w
		g.Go(func() error {
			err := p.Scoped(func(s *scopedpool.Scope) error {
				results := make([]int, 8)
				for i := range results {
					i := i
					s.Execute(func() { results[i] = i * i })
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("workload %d: %w", w, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("demo: workload failed: %w", err)
	}

	slog.Info("all workloads completed")
	return nil
}
