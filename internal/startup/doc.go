// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

// Package startup runs the container start sequence: terminate stale
// worker processes a previous container instance left behind, block until
// the database accepts connections, then replace the process image with
// the application under a lowered-privilege identity.
//
// The sequence is strictly linear and runs exactly once. There is no
// supervision of the application after the handoff.
package startup
