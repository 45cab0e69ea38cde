package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds a root command tree identical to main() but with
// PersistentPreRun stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "belnav",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	root.AddCommand(newNetworkCmd())
	root.AddCommand(newPathsCmd())
	root.AddCommand(newCentralityCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newSessionCmd())
	return root
}

// --- network summary / node ---

func TestNetworkSummaryArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing id", []string{"network", "summary"}},
		{"two ids", []string{"network", "summary", "1", "2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestNetworkNodeArgValidation(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "network", "node"); err == nil {
		t.Error("missing node id should be rejected")
	}
}

// TestNetworkExactArgs1 verifies ExactArgs(1) directly without invoking Run.
func TestNetworkExactArgs1(t *testing.T) {
	argsValidator := cobra.ExactArgs(1)

	if err := argsValidator(nil, []string{"23"}); err != nil {
		t.Errorf("one arg should be valid, got: %v", err)
	}
	if err := argsValidator(nil, []string{}); err == nil {
		t.Error("zero args should fail ExactArgs(1)")
	}
	if err := argsValidator(nil, []string{"a", "b"}); err == nil {
		t.Error("two args should fail ExactArgs(1)")
	}
}

// --- paths ---

func TestPathsArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing both endpoints", []string{"paths"}},
		{"missing target", []string{"paths", "app"}},
		{"too many args", []string{"paths", "app", "psen1", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestPathsArgCount(t *testing.T) {
	argsValidator := cobra.ExactArgs(2)

	cases := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"app", "psen1"}, false},
		{[]string{"app"}, true},
		{[]string{"a", "b", "c"}, true},
		{[]string{}, true},
	}
	for _, tc := range cases {
		err := argsValidator(nil, tc.args)
		if tc.wantErr && err == nil {
			t.Errorf("args %v: expected error", tc.args)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("args %v: unexpected error: %v", tc.args, err)
		}
	}
}

// TestPathsFlagDefaults verifies that the search method defaults to shortest
// and direction is honoured by default.
func TestPathsFlagDefaults(t *testing.T) {
	cmd := newPathsCmd()

	cases := []struct {
		flag string
		want string
	}{
		{"method", "shortest"},
		{"undirected", "false"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

// --- centrality ---

func TestCentralityArgValidation(t *testing.T) {
	root := newTestRoot()
	if err := executeArgs(t, root, "centrality"); err == nil {
		t.Error("missing k should be rejected")
	}
	root = newTestRoot()
	if err := executeArgs(t, root, "centrality", "5", "6"); err == nil {
		t.Error("two args should be rejected")
	}
}

// --- suggest ---

func TestSuggestArgValidation(t *testing.T) {
	subcommands := []string{"nodes", "authors", "pubmed"}
	for _, sub := range subcommands {
		t.Run(sub, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, "suggest", sub); err == nil {
				t.Errorf("%s: missing query should be rejected", sub)
			}
		})
	}
}

// --- session ---

func TestSessionArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"get missing id", []string{"session", "get"}},
		{"delete missing id", []string{"session", "delete"}},
		{"watch missing id", []string{"session", "watch"}},
		{"get two ids", []string{"session", "get", "a", "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestSessionWatchFlagDefaults(t *testing.T) {
	cmd := newSessionCmd()
	var watch *cobra.Command
	for _, sub := range cmd.Commands() {
		if strings.HasPrefix(sub.Use, "watch") {
			watch = sub
			break
		}
	}
	if watch == nil {
		t.Fatal("session watch subcommand not found")
	}

	cases := []struct {
		flag string
		want string
	}{
		{"frames", "false"},
		{"since", "0"},
	}
	for _, tc := range cases {
		f := watch.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found on session watch", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

// --- export flags ---

func TestNetworkExportFlagDefaults(t *testing.T) {
	cmd := networkExportCmd()

	cases := []struct {
		flag string
		want string
	}{
		{"as", "bytes"},
		{"out", "-"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found on network export", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

// --- query pipeline flags ---

func TestQueryFlagRegistration(t *testing.T) {
	cmd := networkQueryCmd()

	flags := []string{"graph", "seed-method", "node", "author", "pmid", "append", "remove", "annotation"}
	for _, name := range flags {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found on network query", name)
		}
	}
	if f := cmd.Flags().Lookup("graph"); f != nil && f.DefValue != "0" {
		t.Errorf("--graph default: got %q, want %q", f.DefValue, "0")
	}
}

func TestQueryFlagsBuild(t *testing.T) {
	tests := []struct {
		name        string
		annotations []string
		want        map[string][]string
		wantErr     bool
	}{
		{
			name:        "single annotation",
			annotations: []string{"Cell=neuron"},
			want:        map[string][]string{"Cell": {"neuron"}},
		},
		{
			name:        "repeated key ORs values",
			annotations: []string{"Cell=neuron", "Cell=astrocyte", "Tissue=cortex"},
			want: map[string][]string{
				"Cell":   {"neuron", "astrocyte"},
				"Tissue": {"cortex"},
			},
		},
		{
			name:        "value may contain equals sign",
			annotations: []string{"Confidence=p=0.05"},
			want:        map[string][]string{"Confidence": {"p=0.05"}},
		},
		{
			name:        "missing separator",
			annotations: []string{"Cell"},
			wantErr:     true,
		},
		{
			name:        "empty key",
			annotations: []string{"=neuron"},
			wantErr:     true,
		},
		{
			name:        "empty value",
			annotations: []string{"Cell="},
			wantErr:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			qf := queryFlags{annotations: tc.annotations}
			got, err := qf.build()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got.Annotations) != len(tc.want) {
				t.Fatalf("annotation keys: got %d, want %d", len(got.Annotations), len(tc.want))
			}
			for key, vals := range tc.want {
				gotVals := got.Annotations[key]
				if len(gotVals) != len(vals) {
					t.Fatalf("%s: got %v, want %v", key, gotVals, vals)
				}
				for i := range vals {
					if gotVals[i] != vals[i] {
						t.Errorf("%s[%d]: got %q, want %q", key, i, gotVals[i], vals[i])
					}
				}
			}
		})
	}
}

func TestQueryFlagsBuildPassthrough(t *testing.T) {
	qf := queryFlags{
		graphID:     23,
		seedMethod:  "neighbors",
		nodes:       []string{"app", "psen1"},
		authors:     []string{"Smith J"},
		removeNodes: []string{"gsk3b"},
	}
	got, err := qf.build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GraphID != 23 {
		t.Errorf("GraphID: got %d, want 23", got.GraphID)
	}
	if got.SeedMethod != "neighbors" {
		t.Errorf("SeedMethod: got %q", got.SeedMethod)
	}
	if len(got.SeedNodes) != 2 || got.SeedNodes[0] != "app" {
		t.Errorf("SeedNodes: got %v", got.SeedNodes)
	}
	if len(got.Remove) != 1 || got.Remove[0] != "gsk3b" {
		t.Errorf("Remove: got %v", got.Remove)
	}
	if got.Annotations != nil {
		t.Errorf("Annotations should be nil when no flags given, got %v", got.Annotations)
	}
}

// --- global format flag ---

func TestFormatFlagDefault(t *testing.T) {
	root := newTestRoot()
	f := root.PersistentFlags().Lookup("format")
	if f == nil {
		t.Fatal("--format flag not found")
	}
	if f.DefValue != "json" {
		t.Errorf("default format: got %q, want %q", f.DefValue, "json")
	}
}

// TestFormatFlagValues verifies that every accepted format value is handled
// by output() without panicking.
func TestFormatFlagValues(t *testing.T) {
	resetFlags(t)
	for _, f := range []string{"json", "table", "quiet"} {
		flagFmt = f
		// output() must not panic for any of these values.
		captureStdout(t, func() { output(map[string]string{"k": "v"}, "id") })
	}
}
