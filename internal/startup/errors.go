// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package startup

import "errors"

var (
	// ErrNoProcessTable is returned by [Sequencer.Run] if no process
	// table is configured.
	ErrNoProcessTable = errors.New("no process table configured")

	// ErrNoWaiter is returned by [Sequencer.Run] if no readiness waiter
	// is configured.
	ErrNoWaiter = errors.New("no readiness waiter configured")
)
