// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/unifier-chat/unifier-install/lib/bootdata"
	"github.com/unifier-chat/unifier-install/lib/config"
	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/lib/container"
	"github.com/unifier-chat/unifier-install/lib/marker"
	"github.com/unifier-chat/unifier-install/lib/ownercheck"
	"github.com/unifier-chat/unifier-install/lib/prompt"
	"github.com/unifier-chat/unifier-install/lib/pyruntime"
	"github.com/unifier-chat/unifier-install/lib/runtimeconfig"
	"github.com/unifier-chat/unifier-install/lib/secret"
	"github.com/unifier-chat/unifier-install/lib/tokenstore"
	"github.com/unifier-chat/unifier-install/messaging"
)

// Paths are the absolute locations of the files the installer reads
// and writes.
type Paths struct {
	Internal      string
	BootConfig    string
	RuntimeConfig string
	TokenStore    string
	Marker        string
}

// PathsFromConfig resolves the configured paths against the checkout
// root.
func PathsFromConfig(cfg *config.Config) Paths {
	return Paths{
		Internal:      cfg.Path(cfg.Paths.Internal),
		BootConfig:    cfg.Path(cfg.Paths.BootConfig),
		RuntimeConfig: cfg.Path(cfg.Paths.RuntimeConfig),
		TokenStore:    cfg.Path(cfg.Paths.TokenStore),
		Marker:        cfg.Path(cfg.Paths.Marker),
	}
}

// Options controls one run.
type Options struct {
	Paths Paths

	// Option is the install option named on the command line. Empty
	// selects the default-flagged option.
	Option string

	// Environment lists the variables secrets are read from.
	Environment config.EnvironmentConfig

	// TokenFile and PassphraseFile, when set, are read with
	// secret.ReadFromPath ("-" is stdin) before the environment is
	// consulted.
	TokenFile      string
	PassphraseFile string

	// AssumeYes answers every confirmation with yes.
	AssumeYes bool

	// Interpreter is the Python executable to probe.
	Interpreter      string
	SkipRuntimeCheck bool

	// ConnectTimeout bounds login plus the wait for gateway ready.
	ConnectTimeout time.Duration

	// WorkFactor is the scrypt work factor for the token store. Zero
	// selects the default.
	WorkFactor int

	// Probe locates the container detection files.
	Probe container.Probe
}

// Dependencies are the collaborators Run uses.
type Dependencies struct {
	// Prompter returns the prompter for the detected environment, or
	// nil when no interactive input is available. ptero is true when
	// hosting-panel support applies.
	Prompter func(ptero bool) prompt.Prompter

	Printer *console.Printer
	Logger  *slog.Logger

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Dial creates the Discord connection for a token. Defaults to a
	// messaging.Client.
	Dial func(token *secret.Buffer, logger *slog.Logger) (ownercheck.Gateway, error)

	// ProbeRuntime reports the Python version. Defaults to
	// pyruntime.Probe.
	ProbeRuntime func(ctx context.Context, interpreter string) (pyruntime.Version, error)

	// Now stamps token store entries. Defaults to time.Now.
	Now func() time.Time
}

// Report describes a completed install.
type Report struct {
	Product     string
	ProductName string

	// Option is the selected install option; empty when OptionSelected
	// is false and the product default applies.
	Option         string
	OptionSelected bool

	Containerized bool
	PteroSupport  bool

	OwnerID uint64
	BotUser messaging.User

	// HomeGuildID is zero when HomeGuildSet is false: either the
	// product skips server setup (nothing written) or the owner shares
	// no guild with the bot (0 written).
	HomeGuildID  uint64
	HomeGuildSet bool

	TokenReplaced    bool
	TokenFingerprint string
}

// Run performs the install. See the package documentation for the
// sequence.
func Run(ctx context.Context, options Options, deps Dependencies) (*Report, error) {
	deps = withDefaults(deps)
	printer := deps.Printer
	logger := deps.Logger

	internal, err := bootdata.LoadInternal(options.Paths.Internal)
	if err != nil {
		return nil, fmt.Errorf("loading install options: %w", err)
	}
	for _, warning := range internal.Warnings() {
		logger.Warn(warning, "path", options.Paths.Internal)
	}

	bootConfig, err := bootdata.LoadBootConfig(options.Paths.BootConfig)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("boot config not found, hosting-panel support disabled", "path", options.Paths.BootConfig)
		bootConfig = &bootdata.BootConfig{Raw: map[string]any{}}
	} else if err != nil {
		return nil, fmt.Errorf("loading boot config: %w", err)
	}

	report := &Report{
		Product:       internal.Product,
		ProductName:   internal.ProductName,
		Containerized: container.Detect(options.Probe),
	}
	report.PteroSupport = bootConfig.PteroSupport(report.Containerized)
	logger.Info("environment detected",
		"containerized", report.Containerized,
		"ptero_support", report.PteroSupport,
	)

	report.Option, report.OptionSelected, err = bootdata.SelectOption(internal.Options, options.Option)
	if err != nil {
		return nil, err
	}
	logger.Info("install option selected", "option", report.Option, "selected", report.OptionSelected)

	if err := checkRuntime(ctx, options, deps, internal); err != nil {
		return nil, err
	}

	prompter := deps.Prompter(report.PteroSupport)
	if closer, ok := prompter.(io.Closer); ok {
		defer closer.Close()
	}
	collector := &collector{
		prompter:  prompter,
		printer:   printer,
		lookupEnv: deps.LookupEnv,
		console:   report.PteroSupport,
	}

	printer.Prompt("To install %s, the installer needs the user ID of the bot's owner, the bot token, and a passphrase for the token store.", internal.ProductName)
	report.OwnerID, err = collector.ownerID(ctx, options.Environment.OwnerID)
	if err != nil {
		return nil, err
	}

	token, err := collector.secret(ctx, secretRequest{
		what:     "bot token",
		file:     options.TokenFile,
		envNames: options.Environment.Token,
		intro:    "The bot token is shown on the Bot page of the Discord developer portal.",
		warning:  fmt.Sprintf("Never share the bot token with anyone, including %s.", internal.Maintainer),
	})
	if err != nil {
		return nil, err
	}
	defer token.Close()

	_, statErr := os.Stat(options.Paths.TokenStore)
	passphrase, err := collector.secret(ctx, secretRequest{
		what:     "token store passphrase",
		file:     options.PassphraseFile,
		envNames: options.Environment.Passphrase,
		intro:    "The passphrase encrypts the bot token on disk. The bot asks for it on every start.",
		warning:  fmt.Sprintf("Never share the passphrase with anyone, including %s.", internal.Maintainer),
		confirm:  errors.Is(statErr, fs.ErrNotExist),
	})
	if err != nil {
		return nil, err
	}
	defer passphrase.Close()

	store, err := tokenstore.Open(options.Paths.TokenStore, passphrase, tokenstore.Options{
		WorkFactor: options.WorkFactor,
		Now:        deps.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("opening token store %s: %w", options.Paths.TokenStore, err)
	}
	defer store.Close()

	document, err := runtimeconfig.Load(options.Paths.RuntimeConfig)
	if err != nil {
		return nil, fmt.Errorf("loading runtime config: %w", err)
	}

	verification, err := verifyOwner(ctx, options, deps, internal, prompter, token, report.OwnerID)
	if err != nil {
		return nil, err
	}
	report.BotUser = verification.BotUser

	if !internal.SkipServer {
		if verification.Found {
			report.HomeGuildID, err = strconv.ParseUint(verification.HomeGuildID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing guild ID %q: %w", verification.HomeGuildID, err)
			}
			report.HomeGuildSet = true
		} else {
			printer.Error("The owner is not in any server the bot is in. moderation.home_guild is set to 0; set it in %s manually.", options.Paths.RuntimeConfig)
		}
	}

	printer.Info("Saving the bot token...")
	report.TokenReplaced, err = storeToken(store, token, passphrase)
	if err != nil {
		return nil, err
	}
	if err := store.Save(options.Paths.TokenStore); err != nil {
		return nil, fmt.Errorf("saving token store: %w", err)
	}
	report.TokenFingerprint, _ = store.Fingerprint(tokenstore.TokenName)
	logger.Info("token stored",
		"path", options.Paths.TokenStore,
		"replaced", report.TokenReplaced,
		"fingerprint", report.TokenFingerprint,
	)

	printer.Info("Saving configuration...")
	if err := document.SetOwner(report.OwnerID); err != nil {
		return nil, err
	}
	// Zero marks the home guild as unset so a stale ID from an earlier
	// install does not survive.
	if !internal.SkipServer {
		if err := document.SetHomeGuild(report.HomeGuildID); err != nil {
			return nil, err
		}
	}
	if err := document.Save(options.Paths.RuntimeConfig); err != nil {
		return nil, fmt.Errorf("saving runtime config: %w", err)
	}

	if err := marker.Write(options.Paths.Marker, marker.New(internal.Product, report.Option, report.OptionSelected)); err != nil {
		return nil, fmt.Errorf("writing install marker: %w", err)
	}

	printer.Info("%s installed successfully.", internal.ProductName)
	return report, nil
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Printer == nil {
		deps.Printer = console.NewPrinter(os.Stdout)
	}
	if deps.Prompter == nil {
		deps.Prompter = func(bool) prompt.Prompter { return nil }
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.Dial == nil {
		deps.Dial = DialDiscord
	}
	if deps.ProbeRuntime == nil {
		deps.ProbeRuntime = pyruntime.Probe
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return deps
}

// DialDiscord is the production Dial: a messaging.Client with the
// default intents.
func DialDiscord(token *secret.Buffer, logger *slog.Logger) (ownercheck.Gateway, error) {
	return messaging.NewClient(messaging.ClientConfig{Token: token, Logger: logger})
}

func checkRuntime(ctx context.Context, options Options, deps Dependencies, internal *bootdata.Internal) error {
	if options.SkipRuntimeCheck || internal.RequiredPyVersion == 0 {
		deps.Logger.Debug("runtime check skipped")
		return nil
	}
	version, err := deps.ProbeRuntime(ctx, options.Interpreter)
	if err != nil {
		return fmt.Errorf("checking Python runtime: %w", err)
	}
	if err := pyruntime.Check(version, internal.RequiredPyVersion); err != nil {
		deps.Printer.Error("Cannot install %s. Python 3.%d or later is required.", internal.ProductName, internal.RequiredPyVersion)
		return err
	}
	deps.Logger.Info("runtime supported", "interpreter", options.Interpreter, "version", version.String())
	return nil
}

func verifyOwner(ctx context.Context, options Options, deps Dependencies, internal *bootdata.Internal, prompter prompt.Prompter, token *secret.Buffer, ownerID uint64) (ownercheck.Result, error) {
	var confirmer ownercheck.Confirmer = prompter
	switch {
	case options.AssumeYes:
		confirmer = prompt.AssumeYes{Prompter: prompter}
	case prompter == nil:
		return ownercheck.Result{}, &MissingInputError{What: "confirmation answers"}
	}

	gateway, err := deps.Dial(token, deps.Logger)
	if err != nil {
		return ownercheck.Result{}, fmt.Errorf("creating Discord client: %w", err)
	}

	deps.Printer.Info("Connecting to Discord...")
	connectCtx := ctx
	if options.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, options.ConnectTimeout)
		defer cancel()
	}

	// The timeout covers login and ready only. The confirmations that
	// follow wait on the operator under ctx.
	return ownercheck.Verify(ctx, &boundedConnect{Gateway: gateway, connectCtx: connectCtx}, ownercheck.Request{
		OwnerID:     strconv.FormatUint(ownerID, 10),
		ProductName: internal.ProductName,
		Confirmer:   confirmer,
		Printer:     deps.Printer,
		Logger:      deps.Logger,
	})
}

// boundedConnect applies a separate deadline to Connect only.
type boundedConnect struct {
	ownercheck.Gateway
	connectCtx context.Context
}

func (b *boundedConnect) Connect(context.Context) (*messaging.Ready, error) {
	return b.Gateway.Connect(b.connectCtx)
}

// storeToken adds the token, replacing an existing entry. It reports
// whether an entry was replaced.
func storeToken(store *tokenstore.Store, token, passphrase *secret.Buffer) (bool, error) {
	err := store.Add(tokenstore.TokenName, token)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, tokenstore.ErrExists) {
		return false, fmt.Errorf("storing token: %w", err)
	}
	if err := store.Replace(tokenstore.TokenName, token, passphrase); err != nil {
		return false, fmt.Errorf("replacing token: %w", err)
	}
	return true, nil
}
