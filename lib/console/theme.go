// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package console

import "github.com/charmbracelet/lipgloss"

// Theme is the installer's palette. Colors are ANSI codes so they map
// onto the operator's terminal scheme.
type Theme struct {
	Prompt      lipgloss.Color
	Info        lipgloss.Color
	Error       lipgloss.Color
	DangerFront lipgloss.Color
	DangerBack  lipgloss.Color
}

// DefaultTheme matches the colors operators of earlier installers
// already recognize.
var DefaultTheme = Theme{
	Prompt:      lipgloss.Color("3"),
	Info:        lipgloss.Color("6"),
	Error:       lipgloss.Color("1"),
	DangerFront: lipgloss.Color("15"),
	DangerBack:  lipgloss.Color("1"),
}
