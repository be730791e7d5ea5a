package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	scopedpool "github.com/ChuLiYu/scoped-pool"
	"github.com/ChuLiYu/scoped-pool/internal/config"
)

func buildStressCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Inject faults and verify worker self-repair and fault propagation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(size)
		},
	}

	cmd.Flags().IntVar(&size, "size", 12, "pool size")

	return cmd
}

func runStress(size int) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if configFile != "" && cfg.Pool.Size > 0 {
		size = cfg.Pool.Size
	}

	p := scopedpool.New(size)
	defer p.Shutdown()

	before := p.Workers()
	fmt.Printf("pool %s started with %d workers\n", p.ID(), before)

	const tasks = 50
	var completed int64

	err = p.Scoped(func(s *scopedpool.Scope) error {
		for i := 0; i < tasks; i++ {
			s.Execute(func() {
				atomic.AddInt64(&completed, 1)
			})
			if i%10 == 0 {
				s.Execute(func() {
					panic("stress: injected fault")
				})
			}
		}
		return nil
	})

	if err == nil {
		return fmt.Errorf("stress: expected a fault to surface, got none")
	}
	fmt.Printf("fault surfaced as expected: %v\n", err)
	fmt.Printf("%d non-faulting tasks completed before the fault surfaced\n", atomic.LoadInt64(&completed))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && p.Workers() != before {
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Printf("pool workers after self-repair: %d (expected %d)\n", p.Workers(), before)

	return nil
}
