// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

// Package handoff replaces the current process image with the main
// application, running under a lowered-privilege identity with an
// injected environment.
package handoff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sys/unix"
)

// Swapped in tests. Replacing the test process image would end the run.
var execve = unix.Exec

// Spec describes the final process image.
type Spec struct {
	// User is the account name the process runs as. Empty keeps the
	// current identity.
	User string

	// ProcName is the name visible in process listings, used as argv[0]
	// of the new image. Empty keeps the command name.
	ProcName string

	// Dir is the working directory of the new image. Empty means no
	// directory change.
	Dir string

	// Command is the command with its arguments. Command[0] is resolved
	// against the PATH of Env.
	Command []string

	// Env is the complete environment of the new image.
	Env []string
}

// Exec replaces the current process image according to the given spec. It
// changes the working directory, drops privileges, resolves the command
// and calls execve(2). It does not return on success. A missing target
// wraps [exec.ErrNotFound], a non-executable one wraps
// [fs.ErrPermission].
func Exec(spec Spec) error {
	if len(spec.Command) == 0 {
		return ErrNoCommand
	}

	if spec.Dir != "" {
		err := os.Chdir(spec.Dir)
		if err != nil {
			return fmt.Errorf("enter app directory: %w", err)
		}
	}

	if spec.User != "" {
		creds, err := lookupCredentials(spec.User)
		if err != nil {
			return err
		}

		err = creds.apply()
		if err != nil {
			return err
		}
	}

	// Resolve after the privilege drop, so permissions of the target
	// user apply. The handed-off environment may carry its own PATH, so
	// the one of the current process must not be consulted.
	path, err := lookPath(spec.Command[0], spec.Env)
	if err != nil {
		return fmt.Errorf("resolve command: %w", err)
	}

	argv := slices.Clone(spec.Command)
	if spec.ProcName != "" {
		argv[0] = spec.ProcName
	}

	err = execve(path, argv, spec.Env)
	if err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}

	return nil
}

// lookPath resolves name against the PATH entry of env. Follows the
// resolution rules of [exec.LookPath], but for an arbitrary environment.
func lookPath(name string, env []string) (string, error) {
	if strings.Contains(name, "/") {
		err := checkExecutable(name)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
		}

		if err != nil {
			return "", err
		}

		return name, nil
	}

	for _, dir := range filepath.SplitList(pathValue(env)) {
		if dir == "" {
			dir = "."
		}

		candidate := filepath.Join(dir, name)
		if checkExecutable(candidate) == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

// pathValue returns the value of the last PATH entry of env.
func pathValue(env []string) string {
	path := ""

	for _, kv := range env {
		if value, ok := strings.CutPrefix(kv, "PATH="); ok {
			path = value
		}
	}

	return path
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() || info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s: %w", path, fs.ErrPermission)
	}

	return nil
}
