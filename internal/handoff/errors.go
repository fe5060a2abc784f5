// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package handoff

import "errors"

// ErrNoCommand is returned by [Exec] if the spec has an empty command.
var ErrNoCommand = errors.New("no command given")
