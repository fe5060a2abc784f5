// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

// Package cmd provides the CLI entry point of the entrypoint binary. It
// handles flag parsing, error handling, and output handling.
package cmd
