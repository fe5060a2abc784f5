// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"

	"github.com/yuanzhongqiao/viseron/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(context.Background(), os.Args, cmd.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}
