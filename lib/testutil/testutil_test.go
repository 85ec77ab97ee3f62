// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type recordingTB struct {
	failed  bool
	message string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func expectFatal(t *testing.T, run func(tb TB)) string {
	t.Helper()
	recorder := &recordingTB{}
	func() {
		defer func() {
			if recovered := recover(); recovered != nil && recovered != recorder {
				panic(recovered)
			}
		}()
		run(recorder)
	}()
	if !recorder.failed {
		t.Fatal("expected Fatalf")
	}
	return recorder.message
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive() = %d", got)
	}

	message := expectFatal(t, func(tb TB) {
		RequireReceive(tb, make(chan int), 10*time.Millisecond, "waiting for %s", "answer")
	})
	if message != "timed out after 10ms: waiting for answer" {
		t.Errorf("message = %q", message)
	}

	closed := make(chan int)
	close(closed)
	expectFatal(t, func(tb TB) { RequireReceive(tb, closed, time.Second) })
}

func TestRequireClosed(t *testing.T) {
	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "done")

	expectFatal(t, func(tb TB) { RequireClosed(tb, make(chan struct{}), 10*time.Millisecond) })
}

func TestCheckout(t *testing.T) {
	root := Checkout(t, map[string]string{
		"boot/internal.json": `{"product": "unifier"}`,
		"config.toml":        "[roles]\n",
	})
	data, err := os.ReadFile(filepath.Join(root, "boot", "internal.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"product": "unifier"}` {
		t.Errorf("content = %q", data)
	}
}
