// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

// Package proc inspects and signals processes via the proc filesystem.
package proc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Table provides access to the process table of a proc filesystem.
//
// The zero value reads /proc and never matches the calling process.
type Table struct {
	// Root is the mount point of the proc filesystem. Empty means /proc.
	Root string

	// Self is a pid that is never matched. Zero means the calling process.
	Self int
}

func (t *Table) root() string {
	if t.Root == "" {
		return "/proc"
	}

	return t.Root
}

func (t *Table) self() int {
	if t.Self == 0 {
		return os.Getpid()
	}

	return t.Self
}

// Matching returns the pids of all processes whose invocation name starts
// with the given prefix. The invocation name is the base name of argv[0],
// or the comm name for processes without a command line. The calling
// process is never included. Processes that vanish during the walk are
// skipped.
func (t *Table) Matching(prefix string) ([]int, error) {
	entries, err := os.ReadDir(t.root())
	if err != nil {
		return nil, fmt.Errorf("read process table: %w", err)
	}

	self := t.self()

	var pids []int

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid == self {
			continue
		}

		name, err := t.commandName(pid)
		if err != nil {
			continue
		}

		if strings.HasPrefix(name, prefix) {
			pids = append(pids, pid)
		}
	}

	return pids, nil
}

// commandName determines the invocation name of a process. cmdline is
// null-separated and argv[0] may have been rewritten to a display name.
// Processes without a command line, like kernel threads, are named by
// comm instead.
func (t *Table) commandName(pid int) (string, error) {
	dir := filepath.Join(t.root(), strconv.Itoa(pid))

	cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil {
		return "", fmt.Errorf("read cmdline: %w", err)
	}

	argv0, _, _ := bytes.Cut(cmdline, []byte{0})
	if len(argv0) > 0 {
		return filepath.Base(string(argv0)), nil
	}

	comm, err := os.ReadFile(filepath.Join(dir, "comm"))
	if err != nil {
		return "", fmt.Errorf("read comm: %w", err)
	}

	return string(bytes.TrimSpace(comm)), nil
}

// Terminate sends SIGTERM to the process with the given pid. A process
// that does not exist anymore is not an error.
func (t *Table) Terminate(pid int) error {
	err := unix.Kill(pid, unix.SIGTERM)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("terminate %d: %w", pid, err)
	}

	return nil
}
