// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"

	"github.com/yuanzhongqiao/viseron/internal/proc"
	"github.com/yuanzhongqiao/viseron/internal/readiness"
	"github.com/yuanzhongqiao/viseron/internal/startup"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newSequencer(cli *cliArgs) *startup.Sequencer {
	waiter := &readiness.Waiter{
		Probe: readiness.DatabaseProbe(cli.CheckCommand, cli.Database),
		Policy: readiness.Policy{
			Interval: cli.CheckInterval,
		},
	}

	return &startup.Sequencer{
		Config: startup.Config{
			StalePrefixes: cli.StalePrefixes,
			User:          cli.User,
			ProcName:      cli.ProcName,
			Dir:           cli.Dir,
			Command:       cli.command(),
			EnvDir:        cli.EnvDir,
		},
		Procs: &proc.Table{},
		Ready: waiter,
	}
}

func run(ctx context.Context, cli *cliArgs) error {
	return newSequencer(cli).Run(ctx)
}

func handleParseArgsError(err error, stdErr io.Writer) int {
	fmt.Fprintf(stdErr, "Error [%s]: %v\n", name, err)

	return -1
}

// handleRunError maps a failed start sequence to the process exit code.
// A missing handoff target maps to 127 and a non-executable one to 126,
// like shells report a failed exec.
func handleRunError(err error, stdErr io.Writer) int {
	exitCode := -1

	switch {
	case errors.Is(err, exec.ErrNotFound):
		exitCode = 127
	case errors.Is(err, fs.ErrPermission):
		exitCode = 126
	}

	fmt.Fprintf(stdErr, "Error [%s]: %v\n", name, err)

	return exitCode
}

// Run is the main entry point for the CLI command. It returns only on
// failure: on success the process image has been replaced by the
// application.
func Run(ctx context.Context, args []string, cfg IO) int {
	cli, err := parseArgs(args, cfg)
	if err != nil {
		return handleParseArgsError(err, cfg.Stderr)
	}

	setupLogging(cfg.Stderr, cli.logLevel())

	err = run(ctx, cli)
	if err != nil {
		return handleRunError(err, cfg.Stderr)
	}

	return 0
}
