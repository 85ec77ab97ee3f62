// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unifier-chat/unifier-install/lib/secret"
)

// Terminal prompts with a bubbletea text input. In must be a terminal.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// inputModel is a single-line question. It quits on Enter, Ctrl-C or
// Esc.
type inputModel struct {
	input       textinput.Model
	submitted   bool
	interrupted bool
}

func newInputModel(label string, masked bool) inputModel {
	input := textinput.New()
	input.Prompt = label + " "
	if masked {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '*'
	}
	input.Focus()
	return inputModel{input: input}
}

func (m inputModel) Init() tea.Cmd { return nil }

func (m inputModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := message.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.interrupted = true
			return m, tea.Quit
		}
	}
	var command tea.Cmd
	m.input, command = m.input.Update(message)
	return m, command
}

// View keeps the answered question on screen, masked when the input
// is, so the transcript shows what was asked.
func (m inputModel) View() string {
	if m.submitted || m.interrupted {
		return m.input.Prompt + strings.Repeat(string(m.input.EchoCharacter), m.maskedLength()) + m.plainValue() + "\n"
	}
	return m.input.View() + "\n"
}

func (m inputModel) maskedLength() int {
	if m.input.EchoMode == textinput.EchoPassword {
		return len([]rune(m.input.Value()))
	}
	return 0
}

func (m inputModel) plainValue() string {
	if m.input.EchoMode == textinput.EchoPassword {
		return ""
	}
	return m.input.Value()
}

func (t *Terminal) run(ctx context.Context, label string, masked bool) (string, error) {
	program := tea.NewProgram(newInputModel(label, masked),
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := program.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	model := final.(inputModel)
	if model.interrupted {
		return "", ErrInterrupted
	}
	return strings.TrimSpace(model.input.Value()), nil
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, label string) (string, error) {
	return t.run(ctx, label, false)
}

// AskSecret implements Prompter. The input is masked.
func (t *Terminal) AskSecret(ctx context.Context, label string) (*secret.Buffer, error) {
	value, err := t.run(ctx, label, true)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, fmt.Errorf("prompt: empty value")
	}
	return secret.NewFromString(value)
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	return confirmWith(ctx, t.Ask, question)
}
