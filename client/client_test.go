package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// registerRoutes registers "METHOD /path" patterns on the mux, dispatching on
// the request method so the patterns behave as they do under the Go 1.22+
// ServeMux on older toolchains.
func registerRoutes(mux *http.ServeMux, routes map[string]http.HandlerFunc) {
	byPath := make(map[string]map[string]http.HandlerFunc)
	for pattern, handler := range routes {
		method, path, ok := strings.Cut(pattern, " ")
		if !ok {
			method, path = "", pattern
		}
		if byPath[path] == nil {
			byPath[path] = make(map[string]http.HandlerFunc)
		}
		byPath[path][method] = handler
	}
	for path, methods := range byPath {
		methods := methods
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if h, ok := methods[r.Method]; ok {
				h(w, r)
				return
			}
			if h, ok := methods[""]; ok {
				h(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		})
	}
}

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	registerRoutes(mux, routes)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL)
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /healthz": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthStatus{Status: "ok", Version: "1.2.0", Networks: 3})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("got status %q, want ok", resp.Status)
	}
	if resp.Networks != 3 {
		t.Errorf("got networks %d, want 3", resp.Networks)
	}
}

func TestReady(t *testing.T) {
	ready := false
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /readyz": func(w http.ResponseWriter, _ *http.Request) {
			if !ready {
				jsonResponse(w, 503, map[string]any{"code": "not_ready", "message": "catalog not loaded"})
				return
			}
			jsonResponse(w, 200, map[string]string{"status": "ok"})
		},
	})

	err := c.Ready(context.Background())
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if provErr.StatusCode != 503 {
		t.Errorf("got status %d, want 503", provErr.StatusCode)
	}

	ready = true
	if err := c.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() after load: %v", err)
	}
}

func TestNetworkSubgraph(t *testing.T) {
	var gotQuery url.Values
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/network/": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			jsonResponse(w, 200, NodeLinkGraph{
				Nodes: []Node{{ID: "app", CName: "APP", Function: "Protein"}},
				Links: []Edge{{Source: "app", Target: "psen1", Relation: "increases"}},
			})
		},
	})

	args := QueryArgs{
		GraphID:     2,
		SeedMethod:  SeedInduction,
		SeedNodes:   []string{"psen1", "app"},
		Annotations: map[string][]string{"Cell": {"neuron"}},
	}

	g, err := c.Networks.Subgraph(context.Background(), args)
	if err != nil {
		t.Fatalf("Subgraph() error: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "app" {
		t.Errorf("unexpected nodes: %+v", g.Nodes)
	}
	if len(g.Links) != 1 {
		t.Errorf("unexpected links: %+v", g.Links)
	}

	if gotQuery.Get("graphid") != "2" {
		t.Errorf("graphid = %q, want 2", gotQuery.Get("graphid"))
	}
	if gotQuery.Get("seed_method") != "induction" {
		t.Errorf("seed_method = %q", gotQuery.Get("seed_method"))
	}
	// Multi-value fields arrive sorted.
	if nodes := gotQuery["nodes"]; len(nodes) != 2 || nodes[0] != "app" || nodes[1] != "psen1" {
		t.Errorf("nodes = %v, want [app psen1]", nodes)
	}
	if gotQuery.Get("Cell") != "neuron" {
		t.Errorf("Cell = %q, want neuron", gotQuery.Get("Cell"))
	}
}

func TestNetworkExport(t *testing.T) {
	payload := []byte{0x1f, 0x8b, 0x00, 0x42}
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/network/": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("format") != "bytes" {
				t.Errorf("format = %q, want bytes", r.URL.Query().Get("format"))
			}
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(payload) //nolint:errcheck
		},
	})

	got, err := c.Networks.Export(context.Background(), QueryArgs{GraphID: 1}, "bytes")
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("export bytes differ: %v", got)
	}
}

func TestNetworkListSummaryNode(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/network/list": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []NetworkSummary{{ID: 0, Name: "universe", Nodes: 10, Edges: 20}, {ID: 1, Name: "ad", Nodes: 5, Edges: 8}})
		},
		"GET /api/summary/1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, NetworkInfo{ID: 1, Name: "ad", Relations: map[string]int{"increases": 4}})
		},
		"GET /api/nodes/app": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Node{ID: "app", CName: "APP", Function: "Protein"})
		},
	})

	ctx := context.Background()

	list, err := c.Networks.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "universe" {
		t.Errorf("unexpected list: %+v", list)
	}

	info, err := c.Networks.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if info.Relations["increases"] != 4 {
		t.Errorf("unexpected summary: %+v", info)
	}

	node, err := c.Networks.Node(ctx, "app")
	if err != nil {
		t.Fatalf("Node() error: %v", err)
	}
	if node.CName != "APP" {
		t.Errorf("unexpected node: %+v", node)
	}
}

func TestPathsFind_ShortestNormalized(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/paths/": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("source") != "app" || q.Get("target") != "psen1" {
				t.Errorf("endpoints = %q -> %q", q.Get("source"), q.Get("target"))
			}
			if _, ok := q["undirected"]; !ok {
				t.Error("undirected flag missing")
			}
			jsonResponse(w, 200, []string{"app", "gsk3b", "psen1"})
		},
	})

	paths, err := c.Paths.Find(context.Background(), QueryArgs{}, "app", "psen1", "", true)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(paths) != 1 || len(paths[0]) != 3 || paths[0][1] != "gsk3b" {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestPathsFind_ShortestNoRoute(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/paths/": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []string{})
		},
	})

	paths, err := c.Paths.Find(context.Background(), QueryArgs{}, "a", "b", PathsShortest, false)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no paths, got %v", paths)
	}
}

func TestPathsFind_All(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/paths/": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("paths_method") != "all" {
				t.Errorf("paths_method = %q", r.URL.Query().Get("paths_method"))
			}
			if _, ok := r.URL.Query()["undirected"]; ok {
				t.Error("undirected flag should be absent")
			}
			jsonResponse(w, 200, [][]string{{"a", "b"}, {"a", "c", "b"}})
		},
	})

	paths, err := c.Paths.Find(context.Background(), QueryArgs{}, "a", "b", PathsAll, false)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if len(paths) != 2 || len(paths[1]) != 3 {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestCentralityTopK(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/centrality/": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("node_number") != "3" {
				t.Errorf("node_number = %q", r.URL.Query().Get("node_number"))
			}
			jsonResponse(w, 200, []string{"gsk3b", "app", "mapt"})
		},
	})

	ranked, err := c.Centrality.TopK(context.Background(), QueryArgs{GraphID: 1}, 3)
	if err != nil {
		t.Fatalf("TopK() error: %v", err)
	}
	if len(ranked) != 3 || ranked[0] != "gsk3b" {
		t.Errorf("unexpected ranking: %v", ranked)
	}
}

func TestTreeAndBlacklist(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/tree/": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []TreeEntry{{Text: "Cell", Children: []TreeEntry{{Text: "neuron"}}}})
		},
		"GET /api/meta/blacklist": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []string{"append", "graphid", "nodes"})
		},
	})

	ctx := context.Background()

	tree, err := c.Tree.Get(ctx, QueryArgs{GraphID: 1})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(tree) != 1 || tree[0].Children[0].Text != "neuron" {
		t.Errorf("unexpected tree: %+v", tree)
	}

	keys, err := c.Tree.Blacklist(ctx)
	if err != nil {
		t.Fatalf("Blacklist() error: %v", err)
	}
	if len(keys) != 3 || keys[1] != "graphid" {
		t.Errorf("unexpected blacklist: %v", keys)
	}
}

func TestSuggest(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/suggestion/nodes/": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("search") != "ap" {
				t.Errorf("search = %q", r.URL.Query().Get("search"))
			}
			jsonResponse(w, 200, []Suggestion{{Text: "APP", ID: "app"}})
		},
		"GET /api/suggestion/authors/": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []Suggestion{{Text: "Smith J", ID: "Smith J"}})
		},
		"GET /api/suggestion/pubmed/": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, []Suggestion{{Text: "100", ID: "100"}})
		},
	})

	ctx := context.Background()

	nodes, err := c.Suggest.Nodes(ctx, "ap")
	if err != nil {
		t.Fatalf("Nodes() error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "app" {
		t.Errorf("unexpected node hits: %+v", nodes)
	}

	authors, err := c.Suggest.Authors(ctx, "smi")
	if err != nil {
		t.Fatalf("Authors() error: %v", err)
	}
	if len(authors) != 1 {
		t.Errorf("unexpected author hits: %+v", authors)
	}

	pmids, err := c.Suggest.Pubmeds(ctx, "10")
	if err != nil {
		t.Fatalf("Pubmeds() error: %v", err)
	}
	if len(pmids) != 1 {
		t.Errorf("unexpected pubmed hits: %+v", pmids)
	}
}

func TestSessionLifecycle(t *testing.T) {
	deleted := false
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/sessions": func(w http.ResponseWriter, r *http.Request) {
			var req createSessionRequest
			if r.ContentLength > 0 {
				json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			}
			snap := SessionSnapshot{ID: "s-1", URL: req.URL}
			if req.URL != "" {
				snap.GraphID = 3
			}
			jsonResponse(w, 201, snap)
		},
		"GET /api/sessions/s-1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, SessionSnapshot{ID: "s-1", Nodes: 12, Edges: 30})
		},
		"DELETE /api/sessions/s-1": func(w http.ResponseWriter, _ *http.Request) {
			deleted = true
			w.WriteHeader(204)
		},
	})

	ctx := context.Background()

	snap, err := c.Sessions.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if snap.ID != "s-1" || snap.GraphID != 0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	restored, err := c.Sessions.Create(ctx, "/explore?graphid=3")
	if err != nil {
		t.Fatalf("Create(restore) error: %v", err)
	}
	if restored.GraphID != 3 {
		t.Errorf("restore did not carry url: %+v", restored)
	}

	got, err := c.Sessions.Get(ctx, "s-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Nodes != 12 {
		t.Errorf("unexpected snapshot: %+v", got)
	}

	if err := c.Sessions.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if !deleted {
		t.Error("delete never reached the server")
	}
}

func TestProviderErrorParsing(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/summary/9": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "network not found", "request_id": "req-7"})
		},
		"GET /api/summary/8": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(500)
			w.Write([]byte("upstream exploded")) //nolint:errcheck
		},
	})

	ctx := context.Background()

	_, err := c.Networks.Summary(ctx, 9)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if provErr.Code != "not_found" || provErr.RequestID != "req-7" {
		t.Errorf("unexpected error: %+v", provErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should match")
	}
	if IsRateLimited(err) {
		t.Error("IsRateLimited should not match")
	}

	_, err = c.Networks.Summary(ctx, 8)
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if provErr.Code != "unknown" || provErr.Message != "upstream exploded" {
		t.Errorf("raw body not preserved: %+v", provErr)
	}
}
