package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestFormatJSON(t *testing.T) {
	out := captureStdout(t, func() {
		formatJSON(map[string]any{"name": "alzheimer", "nodes": 42})
	})

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded["name"] != "alzheimer" {
		t.Errorf("name: got %v, want alzheimer", decoded["name"])
	}
	if !strings.Contains(out, "  \"name\"") {
		t.Errorf("output should be indented:\n%s", out)
	}
}

func TestFormatTable(t *testing.T) {
	out := captureStdout(t, func() {
		formatTable(
			[]string{"ID", "NAME"},
			[][]string{
				{"1", "alzheimer"},
				{"23", "pd"},
			},
		)
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, separator, 2 rows), got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "--") {
		t.Errorf("separator line: %q", lines[1])
	}
	// The NAME column is as wide as its widest cell, so "pd" is padded.
	if !strings.Contains(lines[3], "23  pd") {
		t.Errorf("row line: %q", lines[3])
	}
}

func TestFormatTableColumnWidths(t *testing.T) {
	out := captureStdout(t, func() {
		formatTable(
			[]string{"A", "B"},
			[][]string{{"longer-than-header", "x"}},
		)
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Header cell A must be padded to the width of the widest cell beneath it.
	wantHeader := "A                   B"
	if lines[0] != wantHeader {
		t.Errorf("header: got %q, want %q", lines[0], wantHeader)
	}
	if lines[1] != strings.Repeat("-", 18)+"  -" {
		t.Errorf("separator: got %q", lines[1])
	}
}

func TestOutputQuiet(t *testing.T) {
	resetFlags(t)
	flagFmt = "quiet"

	out := captureStdout(t, func() {
		output(map[string]any{"id": "sess-1"}, "sess-1")
	})

	if strings.TrimSpace(out) != "sess-1" {
		t.Errorf("quiet output: got %q, want %q", strings.TrimSpace(out), "sess-1")
	}
}

func TestOutputJSONDefault(t *testing.T) {
	resetFlags(t)
	flagFmt = "json"

	out := captureStdout(t, func() {
		output(map[string]any{"id": "sess-1"}, "sess-1")
	})

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded["id"] != "sess-1" {
		t.Errorf("id: got %v", decoded["id"])
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, buildDate
	t.Cleanup(func() {
		version, commit, buildDate = origVersion, origCommit, origDate
	})

	version, commit, buildDate = "1.0.0", "", ""
	if got := versionString(); got != "belnav version 1.0.0-dev" {
		t.Errorf("dev version: got %q", got)
	}

	version, commit, buildDate = "1.2.3", "abc1234", "2026-08-25"
	want := "belnav version 1.2.3 (commit: abc1234, built: 2026-08-25)"
	if got := versionString(); got != want {
		t.Errorf("release version: got %q, want %q", got, want)
	}
}
