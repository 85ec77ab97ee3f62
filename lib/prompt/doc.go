// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt asks the operator for values.
//
// Two [Prompter] implementations exist. [Terminal] runs a one-line
// bubbletea text input per question and masks secrets; it needs a
// real terminal on stdin. [Lines] reads newline-terminated answers from
// any reader; it is used for hosting-panel consoles and piped input,
// where a full-screen program cannot run and input is echoed by the
// panel anyway.
//
// [AssumeYes] wraps another Prompter and answers every confirmation
// with yes, for unattended installs.
//
// All methods honor context cancellation. Ctrl-C at a terminal prompt
// returns [ErrInterrupted]; end of input returns [ErrNoInput].
package prompt
