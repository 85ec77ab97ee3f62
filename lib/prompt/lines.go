// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/unifier-chat/unifier-install/lib/secret"
)

// Lines reads one answer per line from a reader. A single goroutine
// owns the reader for the life of the Lines, so a prompt abandoned by
// context cancellation does not lose the next answer.
type Lines struct {
	in  io.Reader
	out io.Writer

	start   sync.Once
	answers chan string
	done    chan struct{}
	err     error

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLines returns a Prompter that writes labels to out and reads
// answers from in.
func NewLines(in io.Reader, out io.Writer) *Lines {
	return &Lines{
		in:      in,
		out:     out,
		answers: make(chan string),
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

func (l *Lines) read() {
	defer close(l.done)
	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		select {
		case l.answers <- scanner.Text():
		case <-l.stop:
			return
		}
	}
	l.err = scanner.Err()
}

func (l *Lines) next(ctx context.Context, label string) (string, error) {
	l.start.Do(func() { go l.read() })
	fmt.Fprintf(l.out, "%s ", label)

	select {
	case answer := <-l.answers:
		return answer, nil
	case <-l.done:
		fmt.Fprintln(l.out)
		if l.err != nil {
			return "", fmt.Errorf("prompt: reading input: %w", l.err)
		}
		return "", ErrNoInput
	case <-ctx.Done():
		fmt.Fprintln(l.out)
		return "", ctx.Err()
	}
}

// Ask implements Prompter.
func (l *Lines) Ask(ctx context.Context, label string) (string, error) {
	answer, err := l.next(ctx, label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// AskSecret implements Prompter. The answer is echoed by whatever is
// driving the input; Lines cannot suppress that.
func (l *Lines) AskSecret(ctx context.Context, label string) (*secret.Buffer, error) {
	answer, err := l.next(ctx, label)
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("prompt: empty value")
	}
	return secret.NewFromString(answer)
}

// Confirm implements Prompter.
func (l *Lines) Confirm(ctx context.Context, question string) (bool, error) {
	return confirmWith(ctx, l.Ask, question)
}

// Close stops the reader goroutine at the next line nobody asks for.
// A goroutine blocked in Read on the underlying reader stays there
// until that Read returns. Prompts after Close fail with ErrNoInput
// once the goroutine exits.
func (l *Lines) Close() error {
	l.stopOnce.Do(func() { close(l.stop) })
	return nil
}
