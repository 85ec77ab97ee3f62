// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes styled operator messages. Not safe for concurrent use.
type Printer struct {
	out   io.Writer
	color bool

	prompt lipgloss.Style
	info   lipgloss.Style
	err    lipgloss.Style
	danger lipgloss.Style
}

// NewPrinter returns a Printer for out. Color is enabled when out is a
// terminal and NO_COLOR is not set.
func NewPrinter(out io.Writer) *Printer {
	return NewPrinterWithTheme(out, DefaultTheme, isTerminal(out) && !termenv.EnvNoColor())
}

// NewPrinterWithTheme returns a Printer with explicit theme and color
// choice.
func NewPrinterWithTheme(out io.Writer, theme Theme, color bool) *Printer {
	renderer := lipgloss.NewRenderer(out)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:    out,
		color:  color,
		prompt: renderer.NewStyle().Foreground(theme.Prompt).Bold(true),
		info:   renderer.NewStyle().Foreground(theme.Info).Bold(true),
		err:    renderer.NewStyle().Foreground(theme.Error),
		danger: renderer.NewStyle().Foreground(theme.DangerFront).Background(theme.DangerBack).Bold(true),
	}
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Color reports whether the printer emits styling.
func (p *Printer) Color() bool { return p.color }

// Writer returns the underlying destination.
func (p *Printer) Writer() io.Writer { return p.out }

// Prompt prints an instruction or question.
func (p *Printer) Prompt(format string, args ...any) {
	p.line(p.prompt, format, args)
}

// Info prints a progress or success message.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.info, format, args)
}

// Error prints a failure message.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.err, format, args)
}

// Danger prints a security warning.
func (p *Printer) Danger(format string, args ...any) {
	p.line(p.danger, format, args)
}

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

func (p *Printer) line(style lipgloss.Style, format string, args []any) {
	text := fmt.Sprintf(format, args...)
	if !p.color {
		fmt.Fprintln(p.out, text)
		return
	}
	// Style each line separately: lipgloss pads multi-line blocks to a
	// rectangle, which looks wrong for a background color.
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(p.out, style.Render(line))
	}
}

// Highlight writes source with syntax highlighting for the named chroma
// lexer ("toml", "json"). Without color the source is written as is.
func (p *Printer) Highlight(source, lexer string) error {
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	if !p.color {
		_, err := io.WriteString(p.out, source)
		return err
	}
	return quick.Highlight(p.out, source, lexer, "terminal256", "monokai")
}

// Sanitize removes ANSI escape sequences and other control characters
// from text received over the network.
func Sanitize(text string) string {
	stripped := ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, stripped)
}
