//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int
}

// Stepper builds the per-tick step function for a simulated board. A step
// returning io.EOF ends the run cleanly.
type Stepper func(*Sim) (func() error, error)

// RunHeadless scans the simulated board without opening a window.
func RunHeadless(ctx context.Context, hcfg HostConfig, newApp Stepper, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h, err := New(hcfg)
	if err != nil {
		return err
	}
	step, err := newApp(h)
	if err != nil {
		return err
	}
	return runTicker(ctx, time.NewTicker(d), step, cfg)
}

func runTicker(ctx context.Context, t *time.Ticker, step func() error, cfg HeadlessConfig) error {
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
