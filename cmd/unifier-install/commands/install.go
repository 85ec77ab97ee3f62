// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/lib/container"
	"github.com/unifier-chat/unifier-install/lib/installer"
	"github.com/unifier-chat/unifier-install/lib/prompt"
	"github.com/unifier-chat/unifier-install/messaging"
)

type installParams struct {
	checkoutParams
	Yes              bool
	SkipRuntimeCheck bool
	ShowConfig       bool
	Timeout          time.Duration
	TokenFile        string
	PassphraseFile   string
}

func installCommand(stdout io.Writer, stdin *os.File) *cli.Command {
	var params installParams

	return &cli.Command{
		Name:    "unifier-install",
		Summary: "Install Unifier into a bot checkout",
		Description: `Set up a Unifier checkout for its first start.

The installer asks for the Discord user ID of the bot's owner, the bot
token, and a passphrase. It logs in to Discord as the bot, confirms the
account with you, sends the owner a verification message, and looks
for a server the owner shares with the bot. It then stores the token
encrypted with the passphrase in .encryptedenv, records the owner and
home server in config.toml, and writes .install.json.

Values are taken from --token-file/--passphrase-file first, then from
the environment (UNIFIER_OWNER_ID, UNIFIER_TOKEN, UNIFIER_ENCRYPTION_KEY,
or the older user-id, token and encryption-key), and are prompted for
otherwise. An optional positional argument names the install option
(see "unifier-install options").`,
		Usage: "unifier-install [option] [flags]",
		Examples: []cli.Example{
			{
				Description: "Install the default option in the current directory",
				Command:     "unifier-install",
			},
			{
				Description: "Install a specific option into another checkout",
				Command:     "unifier-install stable --dir /srv/unifier",
			},
			{
				Description: "Unattended install with secrets from the environment",
				Command:     "UNIFIER_OWNER_ID=123456789012345678 UNIFIER_TOKEN=... UNIFIER_ENCRYPTION_KEY=... unifier-install --yes",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("unifier-install", pflag.ContinueOnError)
			params.register(flagSet)
			flagSet.BoolVarP(&params.Yes, "yes", "y", false, "answer yes to the bot and owner confirmations")
			flagSet.BoolVar(&params.SkipRuntimeCheck, "skip-runtime-check", false, "do not check the Python version")
			flagSet.BoolVar(&params.ShowConfig, "show-config", false, "print config.toml after writing it")
			flagSet.DurationVar(&params.Timeout, "timeout", 5*time.Minute, "abort the whole install after this long (0 disables)")
			flagSet.StringVar(&params.TokenFile, "token-file", "", "read the bot token from this file, or - for stdin")
			flagSet.StringVar(&params.PassphraseFile, "passphrase-file", "", "read the token store passphrase from this file, or - for stdin")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			return runInstall(ctx, &params, args, stdout, stdin)
		},
	}
}

func runInstall(ctx context.Context, params *installParams, args []string, stdout io.Writer, stdin *os.File) error {
	if len(args) > 1 {
		return cli.Validation("expected at most one install option, got %d arguments", len(args))
	}
	if params.TokenFile == "-" && params.PassphraseFile == "-" {
		return cli.Validation("--token-file and --passphrase-file cannot both read stdin")
	}

	logger := cli.NewCommandLogger(params.Verbose).With("command", "install")
	messaging.RouteLogs(logger)

	cfg, err := params.load(logger)
	if err != nil {
		return err
	}
	connectTimeout, err := cfg.ConnectTimeout()
	if err != nil {
		return cli.Validation("gateway.connect_timeout: %w", err)
	}

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	printer := console.NewPrinter(stdout)
	options := installer.Options{
		Paths:            installer.PathsFromConfig(cfg),
		Environment:      cfg.Environment,
		TokenFile:        params.TokenFile,
		PassphraseFile:   params.PassphraseFile,
		AssumeYes:        params.Yes,
		Interpreter:      cfg.Runtime.Interpreter,
		SkipRuntimeCheck: params.SkipRuntimeCheck,
		ConnectTimeout:   connectTimeout,
		WorkFactor:       cfg.Store.WorkFactor,
		Probe:            container.DefaultProbe,
	}
	if len(args) == 1 {
		options.Option = args[0]
	}

	report, err := installer.Run(ctx, options, installer.Dependencies{
		Prompter: func(ptero bool) prompt.Prompter { return stdinPrompter(stdin, stdout, ptero) },
		Printer:  printer,
		Logger:   logger,
	})
	if err != nil {
		return describeFailure(printer, err)
	}

	printer.Plain("Owner:       %d", report.OwnerID)
	printer.Plain("Bot:         %s", report.BotUser)
	if report.HomeGuildSet {
		printer.Plain("Home server: %d", report.HomeGuildID)
	}
	printer.Plain("Token:       stored in %s (fingerprint %s)", options.Paths.TokenStore, report.TokenFingerprint)

	if params.ShowConfig {
		data, err := os.ReadFile(options.Paths.RuntimeConfig)
		if err != nil {
			return cli.Internal("reading %s: %w", options.Paths.RuntimeConfig, err)
		}
		printer.Blank()
		if err := printer.Highlight(string(data), "toml"); err != nil {
			return cli.Internal("printing config: %w", err)
		}
	}
	return nil
}

// stdinPrompter picks how to ask the operator. Hosting panels and
// piped input get line prompts; a terminal gets masked prompts; a
// character device that is not a terminal (/dev/null) gets none.
func stdinPrompter(stdin *os.File, stdout io.Writer, ptero bool) prompt.Prompter {
	if ptero {
		return prompt.NewLines(stdin, stdout)
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return &prompt.Terminal{In: stdin, Out: stdout}
	}
	info, err := stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return prompt.NewLines(stdin, stdout)
}
