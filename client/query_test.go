package client

import (
	"net/url"
	"testing"

	"github.com/belnav/belnav/internal/models"
)

func TestQueryArgsEncodeStable(t *testing.T) {
	a := QueryArgs{
		GraphID:    2,
		SeedMethod: SeedNeighbors,
		SeedNodes:  []string{"psen1", "app", "app"},
		Authors:    []string{"Smith J"},
		Annotations: map[string][]string{
			"Tissue": {"cortex"},
			"Cell":   {"neuron", "astrocyte"},
		},
	}
	b := QueryArgs{
		GraphID:    2,
		SeedMethod: SeedNeighbors,
		SeedNodes:  []string{"app", "psen1"},
		Authors:    []string{"Smith J"},
		Annotations: map[string][]string{
			"Cell":   {"astrocyte", "neuron"},
			"Tissue": {"cortex"},
		},
	}

	if a.EncodeString() != b.EncodeString() {
		t.Errorf("logically equal args encode differently:\n%s\n%s", a.EncodeString(), b.EncodeString())
	}

	want := "Cell=astrocyte&Cell=neuron&Tissue=cortex&authors=Smith+J&graphid=2&nodes=app&nodes=psen1&seed_method=neighbors"
	if got := a.EncodeString(); got != want {
		t.Errorf("EncodeString() = %q, want %q", got, want)
	}
}

func TestQueryArgsEncodeExtra(t *testing.T) {
	a := QueryArgs{
		SeedNodes: []string{"app"},
		Extra:     url.Values{"autoload": {"yes"}, "nodes": {"ignored"}},
	}

	v := a.Encode()
	if v.Get("autoload") != "yes" {
		t.Errorf("extra key lost: %v", v)
	}
	// Extra never overrides a structured field.
	if nodes := v["nodes"]; len(nodes) != 1 || nodes[0] != "app" {
		t.Errorf("nodes = %v, want [app]", nodes)
	}
}

// The SDK encoding must round-trip through the server parser unchanged, so a
// shared link built client-side replays to the identical canonical state.
func TestQueryArgsMatchServerCanonicalForm(t *testing.T) {
	args := QueryArgs{
		GraphID:    1,
		SeedMethod: SeedInduction,
		SeedNodes:  []string{"mapt", "app"},
		Pmids:      []string{"200", "100"},
		Append:     []string{"gsk3b"},
		Remove:     []string{"psen2"},
		Annotations: map[string][]string{
			"Species": {"9606"},
		},
	}

	parsed, err := models.ParseQueryArgs(args.Encode())
	if err != nil {
		t.Fatalf("server parser rejected SDK encoding: %v", err)
	}

	if got, want := parsed.EncodeString(), args.EncodeString(); got != want {
		t.Errorf("canonical forms diverge:\nserver %q\nclient %q", got, want)
	}
}
