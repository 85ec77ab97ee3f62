// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unifier-chat/unifier-install/lib/testutil"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		answer string
		yes    bool
		ok     bool
	}{
		{"y", true, true},
		{"YES", true, true},
		{"  n ", false, true},
		{"No", false, true},
		{"", false, false},
		{"maybe", false, false},
	}
	for _, test := range tests {
		yes, ok := ParseAnswer(test.answer)
		if yes != test.yes || ok != test.ok {
			t.Errorf("ParseAnswer(%q) = (%v, %v), want (%v, %v)", test.answer, yes, ok, test.yes, test.ok)
		}
	}
}

func TestLines_Ask(t *testing.T) {
	var output bytes.Buffer
	lines := NewLines(strings.NewReader("  123456789  \nsecond\n"), &output)
	ctx := context.Background()

	first, err := lines.Ask(ctx, "Owner ID:")
	if err != nil {
		t.Fatal(err)
	}
	if first != "123456789" {
		t.Errorf("first answer = %q", first)
	}
	second, err := lines.Ask(ctx, "Next:")
	if err != nil {
		t.Fatal(err)
	}
	if second != "second" {
		t.Errorf("second answer = %q", second)
	}
	if !strings.Contains(output.String(), "Owner ID: ") {
		t.Errorf("label not written: %q", output.String())
	}
}

func TestLines_EndOfInput(t *testing.T) {
	lines := NewLines(strings.NewReader(""), io.Discard)
	_, err := lines.Ask(context.Background(), "Owner ID:")
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("Ask() error = %v, want ErrNoInput", err)
	}
}

func TestLines_AskSecret(t *testing.T) {
	lines := NewLines(strings.NewReader("tok.en\n\n"), io.Discard)
	ctx := context.Background()

	value, err := lines.AskSecret(ctx, "Token:")
	if err != nil {
		t.Fatal(err)
	}
	defer value.Close()
	if value.String() != "tok.en" {
		t.Errorf("secret = %q", value.String())
	}

	if _, err := lines.AskSecret(ctx, "Token:"); err == nil {
		t.Error("empty secret should be rejected")
	}
}

func TestLines_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
		err   error
	}{
		{"yes", "y\n", true, nil},
		{"no", "no\n", false, nil},
		{"reasks", "what\nY\n", true, nil},
		{"gives up", "a\nb\nc\ny\n", false, ErrNoAnswer},
		{"eof", "", false, ErrNoInput},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lines := NewLines(strings.NewReader(test.input), io.Discard)
			got, err := lines.Confirm(context.Background(), "Is this your bot?")
			if !errors.Is(err, test.err) {
				t.Fatalf("Confirm() error = %v, want %v", err, test.err)
			}
			if got != test.want {
				t.Errorf("Confirm() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestLines_ContextCancelled(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	lines := NewLines(reader, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := lines.Ask(ctx, "Owner ID:")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Ask() error = %v, want deadline exceeded", err)
	}

	// The abandoned read must not swallow the next answer.
	go writer.Write([]byte("42\n"))
	answer, err := lines.Ask(context.Background(), "Owner ID:")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "42" {
		t.Errorf("answer after cancel = %q", answer)
	}
}

func TestLines_WaitsForInput(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	lines := NewLines(reader, io.Discard)

	type answer struct {
		value string
		err   error
	}
	answers := make(chan answer, 1)
	go func() {
		value, err := lines.Ask(context.Background(), "Owner ID:")
		answers <- answer{value, err}
	}()

	if _, err := writer.Write([]byte("987\n")); err != nil {
		t.Fatal(err)
	}
	got := testutil.RequireReceive(t, answers, 5*time.Second, "waiting for the answer")
	if got.err != nil || got.value != "987" {
		t.Errorf("Ask() = %q, %v", got.value, got.err)
	}
}

func TestLines_CloseReleasesReader(t *testing.T) {
	lines := NewLines(strings.NewReader("first\nunread\nunread\n"), io.Discard)
	answer, err := lines.Ask(context.Background(), "Label:")
	if err != nil || answer != "first" {
		t.Fatalf("Ask() = %q, %v", answer, err)
	}

	if err := lines.Close(); err != nil {
		t.Fatal(err)
	}
	if err := lines.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	testutil.RequireClosed(t, lines.done, 5*time.Second, "reader goroutine still running after Close")
}

func TestAssumeYes(t *testing.T) {
	prompter := AssumeYes{Prompter: NewLines(strings.NewReader("value\n"), io.Discard)}

	confirmed, err := prompter.Confirm(context.Background(), "Proceed?")
	if err != nil || !confirmed {
		t.Fatalf("Confirm() = %v, %v", confirmed, err)
	}
	answer, err := prompter.Ask(context.Background(), "Value:")
	if err != nil || answer != "value" {
		t.Fatalf("Ask() = %q, %v", answer, err)
	}
}

func TestInputModel(t *testing.T) {
	model := tea.Model(newInputModel("Token:", true))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	model, command := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	final := model.(inputModel)
	if !final.submitted {
		t.Fatal("Enter did not submit")
	}
	if command == nil {
		t.Fatal("Enter did not quit")
	}
	if final.input.Value() != "abc" {
		t.Errorf("value = %q", final.input.Value())
	}
	if strings.Contains(final.View(), "abc") {
		t.Errorf("masked view leaks the value: %q", final.View())
	}
	if !strings.Contains(final.View(), "***") {
		t.Errorf("masked view = %q", final.View())
	}
}

func TestInputModel_Interrupt(t *testing.T) {
	model := tea.Model(newInputModel("Owner ID:", false))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !model.(inputModel).interrupted {
		t.Fatal("Ctrl-C did not interrupt")
	}
}
