// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/bootdata"
	"github.com/unifier-chat/unifier-install/lib/config"
	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/lib/container"
	"github.com/unifier-chat/unifier-install/lib/marker"
	"github.com/unifier-chat/unifier-install/lib/pyruntime"
	"github.com/unifier-chat/unifier-install/lib/runtimeconfig"
	"github.com/unifier-chat/unifier-install/lib/secret"
	"github.com/unifier-chat/unifier-install/lib/tokenstore"
)

type checkParams struct {
	checkoutParams
	SkipRuntimeCheck bool
	PassphraseFile   string
}

func checkCommand(stdout io.Writer) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Check a checkout before or after installing",
		Description: `Report what the installer would see, without contacting Discord or
writing anything.

Checks that boot/internal.json and boot_config.json parse, reports
container and hosting-panel detection and the option that would be
installed, checks the Python version, and reads config.toml. When a
passphrase is available (--passphrase-file or the passphrase
environment variables) the token store is unlocked and its entries
listed by fingerprint. Exits 1 when any check fails.`,
		Usage: "unifier-install check [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			params.register(flagSet)
			flagSet.BoolVar(&params.SkipRuntimeCheck, "skip-runtime-check", false, "do not check the Python version")
			flagSet.StringVar(&params.PassphraseFile, "passphrase-file", "", "unlock the token store with the passphrase in this file, or - for stdin")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			logger := cli.NewCommandLogger(params.Verbose).With("command", "check")
			cfg, err := params.load(logger)
			if err != nil {
				return err
			}
			checker := &checker{printer: console.NewPrinter(stdout)}
			checker.run(ctx, cfg, &params)
			if checker.failures > 0 {
				checker.printer.Error("%d check(s) failed.", checker.failures)
				return &cli.ExitError{Code: 1}
			}
			checker.printer.Info("All checks passed.")
			return nil
		},
	}
}

type checker struct {
	printer  *console.Printer
	failures int
}

func (c *checker) pass(name, format string, args ...any) {
	c.printer.Info("ok    %-14s %s", name, fmt.Sprintf(format, args...))
}

func (c *checker) fail(name, format string, args ...any) {
	c.failures++
	c.printer.Error("FAIL  %-14s %s", name, fmt.Sprintf(format, args...))
}

func (c *checker) note(name, format string, args ...any) {
	c.printer.Plain("      %-14s %s", name, fmt.Sprintf(format, args...))
}

func (c *checker) run(ctx context.Context, cfg *config.Config, params *checkParams) {
	internalPath := cfg.Path(cfg.Paths.Internal)
	internal, err := bootdata.LoadInternal(internalPath)
	if err != nil {
		c.fail("options", "%v", err)
	} else {
		c.pass("options", "%s declares %d install option(s)", internal.ProductName, len(internal.Options))
		for _, warning := range internal.Warnings() {
			c.note("", "%s", warning)
		}
	}

	containerized := container.Detect(container.DefaultProbe)
	bootConfig, err := bootdata.LoadBootConfig(cfg.Path(cfg.Paths.BootConfig))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.pass("boot config", "not found, defaults apply")
		bootConfig = &bootdata.BootConfig{}
	case err != nil:
		c.fail("boot config", "%v", err)
		bootConfig = &bootdata.BootConfig{}
	default:
		c.pass("boot config", "%d key(s)", len(bootConfig.Raw))
	}
	c.note("environment", "containerized=%v hosting panel=%v", containerized, bootConfig.PteroSupport(containerized))

	if internal != nil {
		if id, ok, _ := bootdata.SelectOption(internal.Options, ""); ok {
			c.note("install", "option %q would be installed", id)
		} else {
			c.note("install", "no default option; the product default applies")
		}
		c.checkRuntime(ctx, cfg, params, internal)
	}

	runtimePath := cfg.Path(cfg.Paths.RuntimeConfig)
	document, err := runtimeconfig.Load(runtimePath)
	if err != nil {
		c.fail("config.toml", "%v", err)
	} else {
		owner, _ := document.Owner()
		guild, hasGuild := document.HomeGuild()
		detail := fmt.Sprintf("owner=%d", owner)
		if hasGuild {
			detail += fmt.Sprintf(" home_guild=%d", guild)
		}
		c.pass("config.toml", "%s", detail)
	}

	c.checkStore(cfg, params)

	if installed, err := marker.Read(cfg.Path(cfg.Paths.Marker)); err == nil {
		option := "default"
		if installed.Option != nil {
			option = *installed.Option
		}
		c.note("marker", "installed: product=%s option=%s setup=%v", installed.Product, option, installed.Setup)
	} else if errors.Is(err, fs.ErrNotExist) {
		c.note("marker", "not installed yet")
	} else {
		c.fail("marker", "%v", err)
	}
}

func (c *checker) checkRuntime(ctx context.Context, cfg *config.Config, params *checkParams, internal *bootdata.Internal) {
	if params.SkipRuntimeCheck || internal.RequiredPyVersion == 0 {
		c.note("python", "check skipped")
		return
	}
	version, err := pyruntime.Probe(ctx, cfg.Runtime.Interpreter)
	if err != nil {
		c.fail("python", "%v", err)
		return
	}
	if err := pyruntime.Check(version, internal.RequiredPyVersion); err != nil {
		c.fail("python", "%v", err)
		return
	}
	c.pass("python", "%s (3.%d or later required)", version, internal.RequiredPyVersion)
}

func (c *checker) checkStore(cfg *config.Config, params *checkParams) {
	storePath := cfg.Path(cfg.Paths.TokenStore)
	if _, err := os.Stat(storePath); errors.Is(err, fs.ErrNotExist) {
		c.note("token store", "not created yet")
		return
	}

	passphrase, source, err := checkPassphrase(params.PassphraseFile, cfg.Environment.Passphrase)
	if err != nil {
		c.fail("token store", "%v", err)
		return
	}
	if passphrase == nil {
		c.note("token store", "present; no passphrase available to unlock it")
		return
	}
	defer passphrase.Close()

	store, err := tokenstore.Open(storePath, passphrase, tokenstore.Options{})
	if err != nil {
		c.fail("token store", "%v (passphrase from %s)", err, source)
		return
	}
	defer store.Close()

	names := store.Names()
	c.pass("token store", "unlocked with the passphrase from %s, %d entr(ies)", source, len(names))
	for _, name := range names {
		fingerprint, _ := store.Fingerprint(name)
		updated, _ := store.UpdatedAt(name)
		c.note("", "%-8s %s  updated %s", name, fingerprint, updated.Format(time.RFC3339))
	}
	if _, err := store.Fingerprint(tokenstore.TokenName); err != nil {
		c.fail("token store", "no %s entry", tokenstore.TokenName)
	}
}

// checkPassphrase returns the passphrase from the file flag or the
// environment, or nil when neither provides one.
func checkPassphrase(file string, envNames []string) (*secret.Buffer, string, error) {
	if file != "" {
		value, err := secret.ReadFromPath(file)
		return value, file, err
	}
	for _, name := range envNames {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			buffer, err := secret.NewFromString(value)
			return buffer, name, err
		}
	}
	return nil, "", nil
}
