// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/bootdata"
	"github.com/unifier-chat/unifier-install/lib/console"
	"github.com/unifier-chat/unifier-install/lib/installer"
	"github.com/unifier-chat/unifier-install/lib/ownercheck"
	"github.com/unifier-chat/unifier-install/lib/prompt"
	"github.com/unifier-chat/unifier-install/lib/pyruntime"
	"github.com/unifier-chat/unifier-install/lib/testutil"
	"github.com/unifier-chat/unifier-install/lib/tokenstore"
)

func checkout(t *testing.T) string {
	t.Helper()
	return testutil.Checkout(t, map[string]string{
		"boot/internal.json": `{
			"product": "unifier",
			"product_name": "Unifier",
			"options": [
				{"id": "A", "name": "Plain", "description": "No extras"},
				{"id": "B", "name": "Recommended", "default": true}
			]
		}`,
		"boot_config.json": `{"ptero": false, "branch": "main"}`,
		"config.toml":      "[roles]\nowner = 0\n",
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("UNIFIER_INSTALL_CONFIG", "")
	var stdout bytes.Buffer
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { devNull.Close() })
	root := newRoot(&stdout, devNull)
	root.HelpOutput = &stdout
	err = root.Execute(context.Background(), args)
	return stdout.String(), err
}

func TestOptions(t *testing.T) {
	root := checkout(t)

	output, err := execute(t, "options", "--dir", root)
	if err != nil {
		t.Fatalf("options error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("output has %d lines:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[1], "A ") || strings.Contains(lines[1], "yes") {
		t.Errorf("row A = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "B ") || !strings.Contains(lines[2], "yes") {
		t.Errorf("row B = %q, want it marked default", lines[2])
	}
}

func TestOptions_JSON(t *testing.T) {
	root := checkout(t)

	output, err := execute(t, "options", "--dir", root, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var listed []struct {
		ID       string `json:"id"`
		Selected bool   `json:"selected"`
	}
	if err := json.Unmarshal([]byte(output), &listed); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if len(listed) != 2 || listed[0].Selected || !listed[1].Selected {
		t.Errorf("listed = %+v", listed)
	}
}

func TestOptions_NotACheckout(t *testing.T) {
	_, err := execute(t, "options", "--dir", t.TempDir())
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Fatalf("error = %v (category %s), want not_found", err, cli.CategoryOf(err))
	}
}

func TestCheck(t *testing.T) {
	root := checkout(t)
	t.Setenv("UNIFIER_ENCRYPTION_KEY", "")
	t.Setenv("encryption-key", "")

	output, err := execute(t, "check", "--dir", root, "--skip-runtime-check")
	if err != nil {
		t.Fatalf("check error: %v\n%s", err, output)
	}
	for _, want := range []string{
		"ok    options",
		"ok    boot config    2 key(s)",
		`option "B" would be installed`,
		"ok    config.toml    owner=0",
		"not created yet",
		"not installed yet",
		"All checks passed.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output is missing %q:\n%s", want, output)
		}
	}
}

func TestCheck_Failures(t *testing.T) {
	root := checkout(t)
	testutil.WriteFile(t, root, "config.toml", "[roles\n")

	output, err := execute(t, "check", "--dir", root, "--skip-runtime-check")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want exit code 1", err)
	}
	if !strings.Contains(output, "FAIL  config.toml") {
		t.Errorf("output:\n%s", output)
	}
}

func TestCheck_UnlocksStore(t *testing.T) {
	root := checkout(t)
	passphraseFile := testutil.WriteFile(t, t.TempDir(), "passphrase", "correct horse\n")
	writeStore(t, filepath.Join(root, ".encryptedenv"), "correct horse", "bot.token")

	output, err := execute(t, "check", "--dir", root, "--skip-runtime-check", "--passphrase-file", passphraseFile)
	if err != nil {
		t.Fatalf("check error: %v\n%s", err, output)
	}
	if !strings.Contains(output, tokenstore.Fingerprint([]byte("bot.token"))) {
		t.Errorf("fingerprint not listed:\n%s", output)
	}
	if strings.Contains(output, "bot.token\n") {
		t.Error("token value printed")
	}
}

func TestInstall_TooManyArguments(t *testing.T) {
	_, err := execute(t, "A", "B", "--dir", checkout(t))
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestInstall_NoInputAvailable(t *testing.T) {
	root := checkout(t)
	for _, name := range []string{"UNIFIER_OWNER_ID", "user-id", "UNIFIER_TOKEN", "token", "UNIFIER_ENCRYPTION_KEY", "encryption-key"} {
		t.Setenv(name, "")
	}

	_, err := execute(t, "--dir", root, "--skip-runtime-check")
	var missing *installer.MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *installer.MissingInputError", err)
	}
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Errorf("category = %s", cli.CategoryOf(err))
	}
}

func TestInstall_ExplicitEnvFileMustExist(t *testing.T) {
	_, err := execute(t, "--dir", checkout(t), "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Fatalf("error = %v, want not_found", err)
	}
}

func TestVersion(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(output, "unifier-install ") {
		t.Errorf("output = %q", output)
	}
}

func TestDescribeFailure(t *testing.T) {
	unauthorized := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"},
		Message:  &discordgo.APIErrorMessage{Message: "401: Unauthorized"},
	}

	tests := []struct {
		name     string
		err      error
		category cli.ErrorCategory
		exit     bool
		printed  string
	}{
		{"bad token", &ownercheck.ConnectError{Err: unauthorized}, cli.CategoryForbidden, false, "Login failed. Perhaps your token is invalid?"},
		{"network", &ownercheck.ConnectError{Err: errors.New("dial tcp: i/o timeout")}, cli.CategoryTransient, false, "Server Members and Message Content intents"},
		{"interrupted", fmt.Errorf("owner: %w", prompt.ErrInterrupted), "", true, "Aborted."},
		{"cancelled", context.Canceled, "", true, "Aborted."},
		{"cancelled during login", &ownercheck.ConnectError{Err: fmt.Errorf("messaging: waiting for gateway ready: %w", context.Canceled)}, "", true, "Aborted."},
		{"rejected", ownercheck.ErrBotRejected, "", true, "Aborted: the connected bot"},
		{"runtime", &pyruntime.UnsupportedError{Found: pyruntime.Version{Major: 3, Minor: 8}, RequiredMinor: 10}, cli.CategoryValidation, false, ""},
		{"owner id", fmt.Errorf("%w: gave up", installer.ErrInvalidOwnerID), cli.CategoryValidation, false, ""},
		{"option", fmt.Errorf("%w \"C\"", bootdata.ErrUnknownOption), cli.CategoryValidation, false, ""},
		{"passphrase", fmt.Errorf("opening: %w", tokenstore.ErrBadPassphrase), cli.CategoryForbidden, false, "does not unlock"},
		{"missing file", fmt.Errorf("loading: %w", os.ErrNotExist), cli.CategoryNotFound, false, ""},
		{"other", errors.New("disk full"), cli.CategoryInternal, false, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			err := describeFailure(console.NewPrinter(&output), test.err)

			var exitErr *cli.ExitError
			if test.exit {
				if !errors.As(err, &exitErr) || exitErr.Code != 1 {
					t.Fatalf("describeFailure() = %v, want exit code 1", err)
				}
			} else if cli.CategoryOf(err) != test.category {
				t.Errorf("category = %s, want %s", cli.CategoryOf(err), test.category)
			}
			if test.printed != "" && !strings.Contains(output.String(), test.printed) {
				t.Errorf("printed %q, want %q", output.String(), test.printed)
			}
		})
	}
}

func TestDescribeFailure_CancelledLoginHasNoLoginHint(t *testing.T) {
	var output bytes.Buffer
	describeFailure(console.NewPrinter(&output), &ownercheck.ConnectError{Err: context.Canceled})
	if strings.Contains(output.String(), "Login failed") {
		t.Errorf("login hint printed for an interrupt:\n%s", output.String())
	}
}

func TestStdinPrompter_DevNull(t *testing.T) {
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	defer devNull.Close()

	if prompter := stdinPrompter(devNull, &bytes.Buffer{}, false); prompter != nil {
		t.Errorf("stdinPrompter(/dev/null) = %T, want nil", prompter)
	}
	if _, ok := stdinPrompter(devNull, &bytes.Buffer{}, true).(*prompt.Lines); !ok {
		t.Error("hosting panels should get line prompts")
	}
}

func TestStdinPrompter_Pipe(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	defer writer.Close()

	if _, ok := stdinPrompter(reader, &bytes.Buffer{}, false).(*prompt.Lines); !ok {
		t.Error("piped stdin should get line prompts")
	}
}
