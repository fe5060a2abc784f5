// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package startup

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/yuanzhongqiao/viseron/internal/envdir"
	"github.com/yuanzhongqiao/viseron/internal/handoff"
)

// ProcessTable gives access to the process table.
type ProcessTable interface {
	// Matching returns the pids of all processes whose invocation name
	// starts with the given prefix.
	Matching(prefix string) ([]int, error)

	// Terminate asks the process with the given pid to terminate.
	Terminate(pid int) error
}

// Waiter blocks until a startup dependency is ready.
type Waiter interface {
	Wait(ctx context.Context) error
}

// ExecFunc replaces the current process image. It returns only on error.
type ExecFunc func(handoff.Spec) error

// Config holds the parameters of the start sequence.
type Config struct {
	// StalePrefixes are the invocation name prefixes of worker processes
	// a previous container instance may have left behind.
	StalePrefixes []string

	// User, ProcName, Dir and Command describe the application process,
	// see [handoff.Spec].
	User     string
	ProcName string
	Dir      string
	Command  []string

	// EnvDir is the directory of the container environment store. Empty
	// disables environment injection.
	EnvDir string
}

// Sequencer runs the start sequence.
type Sequencer struct {
	// Config holds the sequence parameters.
	Config Config

	// Procs is used for the stale process cleanup. Required.
	Procs ProcessTable

	// Ready blocks until the database dependency is up. Required.
	Ready Waiter

	// Exec performs the final process replacement. Nil means
	// [handoff.Exec].
	Exec ExecFunc

	// Log receives diagnostics. Nil means [slog.Default].
	Log *slog.Logger
}

// Run performs the start sequence: stale process cleanup, readiness wait,
// environment injection and the final handoff. It returns only on
// failure. On success the process image has been replaced and the call
// never returns.
func (s *Sequencer) Run(ctx context.Context) error {
	if s.Procs == nil {
		return ErrNoProcessTable
	}

	if s.Ready == nil {
		return ErrNoWaiter
	}

	s.cleanupStale()

	err := s.Ready.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for dependency: %w", err)
	}

	return s.handoff()
}

// cleanupStale terminates leftover worker processes. Strictly best
// effort: no matching process is the common case, and no failure here
// may prevent the start.
func (s *Sequencer) cleanupStale() {
	log := s.logger()

	for _, prefix := range s.Config.StalePrefixes {
		pids, err := s.Procs.Matching(prefix)
		if err != nil {
			log.Debug("Stale process lookup failed",
				slog.String("prefix", prefix),
				slog.Any("error", err))

			continue
		}

		for _, pid := range pids {
			err := s.Procs.Terminate(pid)
			if err != nil {
				log.Debug("Stale process termination failed",
					slog.Int("pid", pid),
					slog.Any("error", err))

				continue
			}

			log.Debug("Terminated stale process",
				slog.String("prefix", prefix),
				slog.Int("pid", pid))
		}
	}
}

// handoff loads the container environment and replaces the process image.
func (s *Sequencer) handoff() error {
	env := os.Environ()

	if s.Config.EnvDir != "" {
		vars, err := envdir.Load(s.Config.EnvDir)
		if err != nil {
			return fmt.Errorf("load environment: %w", err)
		}

		env = vars.Environ(env)
	}

	execFn := s.Exec
	if execFn == nil {
		execFn = handoff.Exec
	}

	err := execFn(handoff.Spec{
		User:     s.Config.User,
		ProcName: s.Config.ProcName,
		Dir:      s.Config.Dir,
		Command:  s.Config.Command,
		Env:      env,
	})
	if err != nil {
		return fmt.Errorf("handoff: %w", err)
	}

	// Reachable only with an injected exec function.
	return nil
}

func (s *Sequencer) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}

	return s.Log
}
