// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package proc_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuanzhongqiao/viseron/internal/proc"
)

type procEntry struct {
	cmdline []string
	comm    string
}

func writeProcRoot(t *testing.T, procs map[int]procEntry) string {
	t.Helper()

	root := t.TempDir()

	for pid, entry := range procs {
		dir := filepath.Join(root, strconv.Itoa(pid))
		require.NoError(t, os.MkdirAll(dir, 0o755))

		cmdline := ""
		if len(entry.cmdline) > 0 {
			cmdline = strings.Join(entry.cmdline, "\x00") + "\x00"
		}

		err := os.WriteFile(filepath.Join(dir, "cmdline"), []byte(cmdline), 0o644)
		require.NoError(t, err)

		if entry.comm != "" {
			err := os.WriteFile(
				filepath.Join(dir, "comm"),
				[]byte(entry.comm+"\n"),
				0o644,
			)
			require.NoError(t, err)
		}
	}

	return root
}

func TestTableMatching(t *testing.T) {
	tests := []struct {
		name     string
		procs    map[int]procEntry
		prefix   string
		self     int
		expected []int
	}{
		{
			name:   "empty process table",
			prefix: "ffmpeg",
			self:   -1,
		},
		{
			name: "no match",
			procs: map[int]procEntry{
				42: {cmdline: []string{"gst-launch-1.0"}},
				43: {cmdline: []string{"python3", "-u", "-m", "viseron"}},
			},
			prefix: "ffmpeg",
			self:   -1,
		},
		{
			name: "match by name",
			procs: map[int]procEntry{
				42: {cmdline: []string{"ffmpeg", "-i", "rtsp://cam/stream"}},
				43: {cmdline: []string{"python3", "-u", "-m", "viseron"}},
			},
			prefix:   "ffmpeg",
			self:     -1,
			expected: []int{42},
		},
		{
			name: "match by path",
			procs: map[int]procEntry{
				42: {cmdline: []string{"/usr/lib/btbn-ffmpeg/bin/ffmpeg", "-y"}},
			},
			prefix:   "ffmpeg",
			self:     -1,
			expected: []int{42},
		},
		{
			name: "match name variant",
			procs: map[int]procEntry{
				42: {cmdline: []string{"ffmpeg4"}},
				43: {cmdline: []string{"ffprobe"}},
			},
			prefix:   "ffmpeg",
			self:     -1,
			expected: []int{42},
		},
		{
			name: "multiple matches",
			procs: map[int]procEntry{
				42: {cmdline: []string{"gstreamer"}},
				43: {cmdline: []string{"gstreamer"}},
				44: {cmdline: []string{"sh", "-c", "sleep 1"}},
			},
			prefix:   "gstreamer",
			self:     -1,
			expected: []int{42, 43},
		},
		{
			name: "empty cmdline falls back to comm",
			procs: map[int]procEntry{
				42: {comm: "ffmpeg-worker"},
			},
			prefix:   "ffmpeg",
			self:     -1,
			expected: []int{42},
		},
		{
			name: "own pid excluded",
			procs: map[int]procEntry{
				42: {cmdline: []string{"ffmpeg"}},
				43: {cmdline: []string{"ffmpeg"}},
			},
			prefix:   "ffmpeg",
			self:     42,
			expected: []int{43},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeProcRoot(t, tt.procs)

			// Entries any real proc filesystem has as well: non-numeric
			// names and a numeric entry whose files cannot be read.
			require.NoError(t, os.Mkdir(filepath.Join(root, "sys"), 0o755))
			require.NoError(t, os.Mkdir(filepath.Join(root, "77"), 0o755))

			err := os.WriteFile(filepath.Join(root, "uptime"), []byte("42"), 0o644)
			require.NoError(t, err)

			table := &proc.Table{Root: root, Self: tt.self}

			actual, err := table.Matching(tt.prefix)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, actual,
				"matched pids should be as expected")
		})
	}
}

func TestTableMatchingMissingRoot(t *testing.T) {
	table := &proc.Table{
		Root: filepath.Join(t.TempDir(), "nonexistent"),
		Self: -1,
	}

	_, err := table.Matching("ffmpeg")
	assert.Error(t, err)
}

func TestTableTerminateGone(t *testing.T) {
	table := &proc.Table{}

	// Way beyond any real pid range, so the signal cannot be delivered.
	err := table.Terminate(1 << 30)
	assert.NoError(t, err)
}
