// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/version"
)

// Root builds the command tree writing to the process's stdout.
func Root() *cli.Command {
	return newRoot(os.Stdout, os.Stdin)
}

func newRoot(stdout io.Writer, stdin *os.File) *cli.Command {
	root := installCommand(stdout, stdin)
	root.Subcommands = []*cli.Command{
		optionsCommand(stdout),
		checkCommand(stdout),
		{
			Name:    "version",
			Summary: "Print version information",
			Run: func(_ context.Context, args []string) error {
				if len(args) > 0 {
					return cli.Validation("unexpected argument: %s", args[0])
				}
				fmt.Fprintf(stdout, "unifier-install %s\n", version.Full())
				return nil
			},
		},
	}
	return root
}
