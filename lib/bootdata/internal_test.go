// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package bootdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadInternal(t *testing.T) {
	path := writeFile(t, `{
		// shipped with every checkout
		"product": "unifier",
		"product_name": "Unifier",
		"maintainer": "Green",
		"required_py_version": 12,
		"skip_server": false,
		"options": [
			{"id": "stable", "name": "Stable", "default": true},
			{"id": "ptero", "name": "Pterodactyl", "default": false},
		],
	}`)

	internal, err := LoadInternal(path)
	if err != nil {
		t.Fatalf("LoadInternal() error: %v", err)
	}
	if internal.Product != "unifier" || internal.ProductName != "Unifier" {
		t.Errorf("product = %q/%q", internal.Product, internal.ProductName)
	}
	if internal.RequiredPyVersion != 12 {
		t.Errorf("RequiredPyVersion = %d, want 12", internal.RequiredPyVersion)
	}
	if got := strings.Join(internal.OptionIDs(), ","); got != "stable,ptero" {
		t.Errorf("OptionIDs() = %s", got)
	}
	if warnings := internal.Warnings(); len(warnings) != 0 {
		t.Errorf("Warnings() = %v, want none", warnings)
	}
}

func TestLoadInternal_Defaults(t *testing.T) {
	internal, err := LoadInternal(writeFile(t, `{"product": "unifier"}`))
	if err != nil {
		t.Fatalf("LoadInternal() error: %v", err)
	}
	if internal.ProductName != "unifier" {
		t.Errorf("ProductName = %q, want fallback to product", internal.ProductName)
	}
	if internal.Maintainer == "" {
		t.Error("Maintainer should have a fallback")
	}
}

func TestLoadInternal_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing product", `{"options": []}`, "product is required"},
		{"empty option id", `{"product": "u", "options": [{"id": ""}]}`, "id is required"},
		{"duplicate option id", `{"product": "u", "options": [{"id": "a"}, {"id": "a"}]}`, "duplicate id"},
		{"not json", `product = "u"`, "parsing"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadInternal(writeFile(t, test.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q should contain %q", err, test.want)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	none := &Internal{Options: []Option{{ID: "a"}, {ID: "b"}}}
	if warnings := none.Warnings(); len(warnings) != 1 || !strings.Contains(warnings[0], "no install option") {
		t.Errorf("Warnings() without default = %v", warnings)
	}

	several := &Internal{Options: []Option{{ID: "a", Default: true}, {ID: "b", Default: true}}}
	if warnings := several.Warnings(); len(warnings) != 1 || !strings.Contains(warnings[0], `using "a"`) {
		t.Errorf("Warnings() with two defaults = %v", warnings)
	}
}

func TestLoadBootConfig(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		containerized bool
		wantPtero     bool
		wantSupport   bool
	}{
		{"ptero in container", `{"ptero": true}`, true, true, true},
		{"ptero on host", `{"ptero": true}`, false, true, false},
		{"ptero off", `{"ptero": false, "other": 1}`, true, false, false},
		{"flag absent", `{}`, true, false, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config, err := LoadBootConfig(writeFile(t, test.content))
			if err != nil {
				t.Fatalf("LoadBootConfig() error: %v", err)
			}
			if config.Ptero != test.wantPtero {
				t.Errorf("Ptero = %v, want %v", config.Ptero, test.wantPtero)
			}
			if got := config.PteroSupport(test.containerized); got != test.wantSupport {
				t.Errorf("PteroSupport(%v) = %v, want %v", test.containerized, got, test.wantSupport)
			}
		})
	}
}

func TestLoadBootConfig_NonBooleanPtero(t *testing.T) {
	if _, err := LoadBootConfig(writeFile(t, `{"ptero": "yes"}`)); err == nil {
		t.Fatal("expected error for string ptero flag")
	}
}
