// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit without printing another message:
// the command has already explained itself to the operator (an aborted
// install, a failed preflight check).
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks for this method on
// returned errors.
func (e *ExitError) ExitCode() int {
	return e.Code
}
