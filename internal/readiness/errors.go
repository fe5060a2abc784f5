// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package readiness

import (
	"errors"
	"fmt"
)

// ErrNoProber is returned by [Waiter.Wait] if no probe is configured.
var ErrNoProber = errors.New("no prober configured")

// NotReadyError is returned by [Waiter.Wait] once a bounded policy ran
// out of attempts before the probe succeeded.
type NotReadyError struct {
	// Attempts is the number of probe attempts that were made.
	Attempts int

	// Err is the error of the last probe attempt.
	Err error
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("dependency not ready after %d attempts: %v",
		e.Attempts, e.Err)
}

func (e *NotReadyError) Is(other error) bool {
	_, ok := other.(*NotReadyError)
	return ok
}

func (e *NotReadyError) Unwrap() error {
	return e.Err
}
