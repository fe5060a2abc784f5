// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package cmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yuanzhongqiao/viseron/internal/cmd"
)

func TestRunParseError(t *testing.T) {
	var stdOut, stdErr bytes.Buffer

	args := []string{"entrypoint", "--frobnicate"}

	exitCode := cmd.Run(context.Background(), args, cmd.IO{
		Stdout: &stdOut,
		Stderr: &stdErr,
	})

	assert.Equal(t, -1, exitCode, "exit code should be as expected")
	assert.Contains(t, stdErr.String(), "Error [entrypoint]: parse args")
}

// TestRunCommandNotFound runs the complete start sequence against the
// real system. The readiness check passes immediately and the handoff
// fails to resolve its target, which is the only full pass through the
// sequence that leaves the test process alive.
func TestRunCommandNotFound(t *testing.T) {
	var stdOut, stdErr bytes.Buffer

	args := []string{
		"entrypoint",
		"--check-command=true",
		"--user=",
		"--dir=",
		"--env-dir=",
		"--stale-prefix=viseron-no-such-worker",
		"--",
		"viseron-no-such-command",
	}

	exitCode := cmd.Run(context.Background(), args, cmd.IO{
		Stdout: &stdOut,
		Stderr: &stdErr,
	})

	assert.Equal(t, 127, exitCode, "exit code should be as expected")
	assert.Contains(t, stdErr.String(), `msg="Server has started!"`)
	assert.NotContains(t, stdErr.String(), "msg=Waiting...")
	assert.Contains(t, stdErr.String(),
		"Error [entrypoint]: handoff: resolve command: "+
			"viseron-no-such-command: executable file not found in $PATH\n")
}
