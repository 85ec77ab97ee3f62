// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Unifier-install sets up a Unifier bot checkout for its first start:
// it verifies the bot token and owner against Discord, stores the token
// encrypted, and writes config.toml and .install.json.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that already explained the failure return an
		// ExitError; don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root().Execute(ctx, os.Args[1:])
}
