// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

// Package readiness blocks startup until an external dependency accepts
// connections.
package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

// DefaultInterval is the default delay between probe attempts.
const DefaultInterval = time.Second

// Policy controls how often and how long a [Waiter] retries its probe.
type Policy struct {
	// Interval is the fixed delay between attempts. There is no backoff.
	// Zero means [DefaultInterval].
	Interval time.Duration

	// MaxAttempts bounds the number of probe attempts. Zero or negative
	// means unlimited.
	MaxAttempts int
}

func (p Policy) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}

	return p.Interval
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return retry.UnlimitedAttempts
	}

	return p.MaxAttempts
}

// Waiter blocks until its probe reports success.
type Waiter struct {
	// Probe is consulted once per attempt. Required.
	Probe Prober

	// Policy sets the probe interval and attempt bound. The zero value
	// probes every [DefaultInterval] with no attempt bound.
	Policy Policy

	// Clock is the time source for the delay between attempts. Nil means
	// the wall clock.
	Clock clock.Clock

	// Log receives one info line per failed attempt and one once the
	// probe succeeds. Nil means [slog.Default].
	Log *slog.Logger
}

// Wait probes until the first success, sleeping the policy interval after
// each failed attempt. Each failure logs a single info line. With a
// bounded policy, a [NotReadyError] wrapping the last probe error is
// returned once all attempts failed. Cancelling ctx stops the wait
// between attempts.
func (w *Waiter) Wait(ctx context.Context) error {
	if w.Probe == nil {
		return ErrNoProber
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	log := w.Log
	if log == nil {
		log = slog.Default()
	}

	clk := w.Clock
	if clk == nil {
		clk = clock.WallClock
	}

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			return w.Probe.Probe(ctx)
		},
		NotifyFunc: func(lastError error, attempt int) {
			log.Info("Waiting...")
			log.Debug("Dependency not ready",
				slog.Int("attempt", attempt),
				slog.Any("error", lastError))
		},
		Attempts: w.Policy.attempts(),
		Delay:    w.Policy.interval(),
		Clock:    clk,
		Stop:     ctx.Done(),
	})

	switch {
	case err == nil:
	case retry.IsAttemptsExceeded(err):
		return &NotReadyError{
			Attempts: w.Policy.MaxAttempts,
			Err:      retry.LastError(err),
		}
	case retry.IsRetryStopped(err):
		return fmt.Errorf("readiness wait stopped: %w", ctx.Err())
	default:
		return err
	}

	log.Info("Server has started!")

	return nil
}
