package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/belnav/belnav/internal/api"
	"github.com/belnav/belnav/internal/models"
)

func newPathsRouter(m *mockGraph) *gin.Engine {
	r := gin.New()
	h := api.NewPathsHandler(m, testLogger())
	r.GET("/api/paths/", h.Find)
	r.GET("/api/centrality/", h.Centrality)

	return r
}

func TestPathsFind_ShortestIsFlat(t *testing.T) {
	var gotMethod string
	var gotUndirected bool

	m := &mockGraph{
		pathsFn: func(_ context.Context, _ models.QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
			gotMethod = method
			gotUndirected = undirected

			return [][]string{{source, "il6", target}}, nil
		},
	}
	r := newPathsRouter(m)

	w := doRequest(r, http.MethodGet, "/api/paths/?source=app&target=tnf", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if gotMethod != models.PathsShortest || gotUndirected {
		t.Errorf("expected default shortest directed, got method=%q undirected=%v", gotMethod, gotUndirected)
	}

	var path []string
	if err := json.Unmarshal(w.Body.Bytes(), &path); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(path) != 3 || path[0] != "app" || path[2] != "tnf" {
		t.Errorf("unexpected path: %v", path)
	}
}

func TestPathsFind_ShortestNoRoute(t *testing.T) {
	m := &mockGraph{
		pathsFn: func(_ context.Context, _ models.QueryArgs, _, _, _ string, _ bool) ([][]string, error) {
			return [][]string{}, nil
		},
	}
	r := newPathsRouter(m)

	w := doRequest(r, http.MethodGet, "/api/paths/?source=app&target=tnf", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var path []string
	if err := json.Unmarshal(w.Body.Bytes(), &path); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(path) != 0 {
		t.Errorf("expected empty path, got %v", path)
	}
}

func TestPathsFind_AllIsNested(t *testing.T) {
	m := &mockGraph{
		pathsFn: func(_ context.Context, _ models.QueryArgs, _, _, _ string, _ bool) ([][]string, error) {
			return [][]string{{"app", "apop"}, {"app", "il6", "tnf", "apop"}}, nil
		},
	}
	r := newPathsRouter(m)

	w := doRequest(r, http.MethodGet, "/api/paths/?source=app&target=apop&paths_method=all", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var paths [][]string
	if err := json.Unmarshal(w.Body.Bytes(), &paths); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(paths) != 2 || len(paths[1]) != 4 {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestPathsFind_UndirectedFlagIsPresenceBased(t *testing.T) {
	var gotUndirected bool

	m := &mockGraph{
		pathsFn: func(_ context.Context, _ models.QueryArgs, _, _, _ string, undirected bool) ([][]string, error) {
			gotUndirected = undirected

			return [][]string{}, nil
		},
	}
	r := newPathsRouter(m)

	doRequest(r, http.MethodGet, "/api/paths/?source=a&target=b&undirected", "")
	if !gotUndirected {
		t.Error("expected bare undirected param to set the flag")
	}
}

func TestPathsFind_MissingEndpoints(t *testing.T) {
	r := newPathsRouter(&mockGraph{})

	if w := doRequest(r, http.MethodGet, "/api/paths/?target=b", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing source, got %d", w.Code)
	}

	if w := doRequest(r, http.MethodGet, "/api/paths/?source=a", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing target, got %d", w.Code)
	}
}

func TestPathsFind_UnknownEndpoint(t *testing.T) {
	m := &mockGraph{
		pathsFn: func(_ context.Context, _ models.QueryArgs, _, _, _ string, _ bool) ([][]string, error) {
			return nil, fmt.Errorf("%w: %q", models.ErrNodeNotFound, "ghost")
		},
	}
	r := newPathsRouter(m)

	if w := doRequest(r, http.MethodGet, "/api/paths/?source=ghost&target=b", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCentrality(t *testing.T) {
	var gotK int

	m := &mockGraph{
		centralityFn: func(_ context.Context, _ models.QueryArgs, k int) ([]string, error) {
			gotK = k

			return []string{"app", "il6", "tnf"}, nil
		},
	}
	r := newPathsRouter(m)

	w := doRequest(r, http.MethodGet, "/api/centrality/?node_number=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotK != 3 {
		t.Errorf("expected k=3, got %d", gotK)
	}

	var ranked []string
	if err := json.Unmarshal(w.Body.Bytes(), &ranked); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(ranked) != 3 || ranked[0] != "app" {
		t.Errorf("unexpected ranking: %v", ranked)
	}
}

func TestCentrality_BadNodeNumber(t *testing.T) {
	r := newPathsRouter(&mockGraph{})

	if w := doRequest(r, http.MethodGet, "/api/centrality/?node_number=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric node_number, got %d", w.Code)
	}

	if w := doRequest(r, http.MethodGet, "/api/centrality/", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing node_number, got %d", w.Code)
	}
}

func TestCentrality_TooLarge(t *testing.T) {
	m := &mockGraph{
		centralityFn: func(_ context.Context, _ models.QueryArgs, k int) ([]string, error) {
			return nil, fmt.Errorf("%w: %d > 5", models.ErrNodeNumberTooLarge, k)
		},
	}
	r := newPathsRouter(m)

	if w := doRequest(r, http.MethodGet, "/api/centrality/?node_number=100", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
