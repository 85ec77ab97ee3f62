// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/unifier-chat/unifier-install/lib/secret"
)

var (
	// ErrInterrupted is returned when the operator cancels a prompt.
	ErrInterrupted = errors.New("prompt: interrupted")

	// ErrNoInput is returned when input ends before an answer is read.
	ErrNoInput = errors.New("prompt: no input available")

	// ErrNoAnswer is returned when Confirm gets no recognizable answer
	// within MaxAttempts.
	ErrNoAnswer = errors.New("prompt: no yes/no answer given")
)

// MaxAttempts bounds how many times a question is re-asked after an
// unusable answer.
const MaxAttempts = 3

// Prompter asks the operator for input.
type Prompter interface {
	// Ask prints label and returns the answer with surrounding
	// whitespace trimmed.
	Ask(ctx context.Context, label string) (string, error)

	// AskSecret is Ask for values that must not be echoed or kept in
	// ordinary memory. The caller owns the returned buffer.
	AskSecret(ctx context.Context, label string) (*secret.Buffer, error)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
}

// ParseAnswer interprets a yes/no answer. ok is false for anything
// other than y, yes, n, or no (case-insensitive).
func ParseAnswer(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// confirmWith implements Confirm on top of an Ask function.
func confirmWith(ctx context.Context, ask func(context.Context, string) (string, error), question string) (bool, error) {
	label := question + " (y/n)"
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		answer, err := ask(ctx, label)
		if err != nil {
			return false, err
		}
		if yes, ok := ParseAnswer(answer); ok {
			return yes, nil
		}
		label = fmt.Sprintf("Please answer y or n. %s (y/n)", question)
	}
	return false, ErrNoAnswer
}

// AssumeYes answers every confirmation with yes and delegates
// everything else.
type AssumeYes struct {
	Prompter
}

// Confirm returns true without asking.
func (AssumeYes) Confirm(context.Context, string) (bool, error) {
	return true, nil
}
