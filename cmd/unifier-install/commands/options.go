// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/bootdata"
)

type optionsParams struct {
	checkoutParams
	JSON bool
}

func optionsCommand(stdout io.Writer) *cli.Command {
	var params optionsParams

	return &cli.Command{
		Name:    "options",
		Summary: "List the install options of a checkout",
		Description: `List the install options declared in boot/internal.json.

The option marked default is installed when no option is named on the
command line.`,
		Usage: "unifier-install options [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("options", pflag.ContinueOnError)
			params.register(flagSet)
			flagSet.BoolVar(&params.JSON, "json", false, "print the options as JSON")
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			logger := cli.NewCommandLogger(params.Verbose).With("command", "options")
			cfg, err := params.load(logger)
			if err != nil {
				return err
			}

			path := cfg.Path(cfg.Paths.Internal)
			internal, err := bootdata.LoadInternal(path)
			if errors.Is(err, fs.ErrNotExist) {
				return cli.NotFound("%s does not exist; is --dir a Unifier checkout?", path)
			}
			if err != nil {
				return cli.Validation("%w", err)
			}
			return writeOptions(stdout, internal, params.JSON)
		},
	}
}

func writeOptions(w io.Writer, internal *bootdata.Internal, asJSON bool) error {
	selected, ok, _ := bootdata.SelectOption(internal.Options, "")

	if asJSON {
		type listedOption struct {
			bootdata.Option
			Selected bool `json:"selected"`
		}
		listed := make([]listedOption, len(internal.Options))
		for index, option := range internal.Options {
			listed[index] = listedOption{Option: option, Selected: ok && option.ID == selected}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listed)
	}

	if len(internal.Options) == 0 {
		fmt.Fprintf(w, "%s declares no install options.\n", internal.ProductName)
		return nil
	}
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDEFAULT\tDESCRIPTION")
	for _, option := range internal.Options {
		mark := ""
		if ok && option.ID == selected {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", option.ID, option.Name, mark, option.Description)
	}
	return tw.Flush()
}
