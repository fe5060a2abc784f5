// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/alecthomas/kong"
)

const (
	name = "entrypoint"

	description = "Container entrypoint for Viseron. Terminates stale " +
		"worker processes, waits until the database accepts connections " +
		"and hands control over to the application."
)

// defaultCommand is handed off to when no command argument is given.
var defaultCommand = []string{"python3", "-u", "-m", "viseron"}

// cliArgs is the kong grammar of the command line. Every flag can also be
// set via environment variable, so the container image can configure the
// binary without arguments.
type cliArgs struct {
	User string `help:"User to run the application as. Empty keeps the current user." default:"abc" env:"ENTRYPOINT_USER"`

	ProcName string `name:"proc-name" help:"Process name visible in process listings." default:"viseron" env:"ENTRYPOINT_PROC_NAME"`

	Dir string `help:"Directory to change into before the handoff." default:"/src" env:"ENTRYPOINT_DIR"`

	EnvDir string `name:"env-dir" help:"Directory of the container environment store. Empty disables environment injection." default:"/var/run/s6/container_environment" env:"ENTRYPOINT_ENV_DIR"`

	Database string `help:"Database that must accept connections before the handoff." default:"viseron" env:"ENTRYPOINT_DATABASE"`

	CheckCommand string `name:"check-command" help:"Readiness check program, must understand the pg_isready interface." default:"pg_isready" env:"ENTRYPOINT_CHECK_COMMAND"`

	CheckInterval time.Duration `name:"check-interval" help:"Delay between readiness checks." default:"1s" env:"ENTRYPOINT_CHECK_INTERVAL"`

	StalePrefixes []string `name:"stale-prefix" help:"Name prefixes of stale worker processes to terminate before the start." default:"ffmpeg,gstreamer" env:"ENTRYPOINT_STALE_PREFIXES"`

	LogLevel string `name:"log-level" help:"Log level." enum:"debug,info,warn,error" default:"info" env:"ENTRYPOINT_LOG_LEVEL"`

	Version kong.VersionFlag `help:"Show version and exit."`

	Command []string `arg:"" optional:"" passthrough:"" help:"Application command to hand off to. Default: ${defaultCommand}."`
}

// command returns the application command to hand off to.
func (c *cliArgs) command() []string {
	if len(c.Command) == 0 {
		return defaultCommand
	}

	return c.Command
}

func (c *cliArgs) logLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseArgs parses the given arguments, usually os.Args. Help and version
// requests print to the configured output and terminate the process.
func parseArgs(args []string, cfg IO) (*cliArgs, error) {
	cli := &cliArgs{}

	parser, err := kong.New(cli,
		kong.Name(name),
		kong.Description(description),
		kong.Writers(cfg.Stdout, cfg.Stderr),
		kong.Vars{
			"version":        version(),
			"defaultCommand": strings.Join(defaultCommand, " "),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new parser: %w", err)
	}

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	_, err = parser.Parse(rest)
	if err != nil {
		return nil, &ParseArgsError{msg: "parse args", err: err}
	}

	return cli, nil
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return buildInfo.Main.Version
}
