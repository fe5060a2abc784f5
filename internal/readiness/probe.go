// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package readiness

import (
	"context"
	"fmt"
	"os/exec"
)

// Prober reports whether an external dependency is ready.
type Prober interface {
	// Probe returns nil iff the dependency accepts connections.
	Probe(ctx context.Context) error
}

// Command probes by running an external command. The dependency counts as
// ready iff the command exits zero. Output is discarded, only the exit
// status participates.
type Command struct {
	// Path is the command to run, resolved via PATH if relative.
	Path string

	// Args are the arguments passed to the command.
	Args []string
}

// DatabaseProbe returns a [Command] that checks whether the named
// database accepts connections. The check program must understand the
// pg_isready interface: `-d <database> -q`, exit zero iff ready.
func DatabaseProbe(path, database string) *Command {
	return &Command{
		Path: path,
		Args: []string{"-d", database, "-q"},
	}
}

// Probe implements [Prober].
func (c *Command) Probe(ctx context.Context) error {
	err := exec.CommandContext(ctx, c.Path, c.Args...).Run()
	if err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}

	return nil
}
