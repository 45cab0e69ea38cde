// Package main provides a standalone preflight check that validates a
// directory of node-link JSON files before the belnav server loads it.
//
// Usage:
//
//	DATA_DIR=/path/to/data go run ./scripts/checkdata
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/store"
)

// config holds environment-driven preflight settings.
type config struct {
	DataDir string
	Strict  bool
}

// report holds the final preflight summary.
type report struct {
	Dir           string
	FilesScanned  int
	Files         []fileReport
	Broken        []brokenFile
	LoadedCount   int
	UniverseNodes int
	UniverseEdges int
	SpotChecks    []string
	Duration      time.Duration
	Strict        bool
	Err           error
}

// brokenFile records a file the loader would skip entirely.
type brokenFile struct {
	Path   string
	Reason string
}

func main() {
	cfg := loadConfig()

	slog.Info("starting preflight",
		"dir", cfg.DataDir,
		"strict", cfg.Strict,
	)

	start := time.Now()
	r, err := runCheck(cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		slog.Error("preflight failed", "error", err)
	}
	printReport(&r)
	if err != nil {
		os.Exit(1)
	}
	if cfg.Strict && r.defectCount() > 0 {
		slog.Error("strict mode: data directory has defects", "count", r.defectCount())
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		DataDir: envOr("DATA_DIR", "./data"),
		Strict:  os.Getenv("STRICT") == "true" || os.Getenv("STRICT") == "1",
	}
}

// runCheck executes the full preflight pipeline: scan every file for defects,
// load the directory through the server's own loader, then cross-check what
// the catalog ended up holding against the scan.
func runCheck(cfg config) (report, error) {
	r := report{
		Dir:    cfg.DataDir,
		Strict: cfg.Strict,
	}

	files, broken, err := scanDir(cfg.DataDir)
	if err != nil {
		return r, fmt.Errorf("scan %s: %w", cfg.DataDir, err)
	}
	r.Files = files
	r.Broken = broken
	r.FilesScanned = len(files) + len(broken)
	slog.Info("scanned data directory",
		"files", r.FilesScanned,
		"loadable", len(files),
		"broken", len(broken),
	)

	// Load through the real server loader so the preflight sees exactly what
	// the server would. Store warnings about skipped files and edges surface
	// inline.
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	st := store.New(log)
	if err := st.LoadDir(cfg.DataDir); err != nil {
		return r, fmt.Errorf("load %s: %w", cfg.DataDir, err)
	}

	list := st.List()
	r.LoadedCount = len(list)

	universe, err := st.Info(0)
	if err != nil {
		return r, fmt.Errorf("universe info: %w", err)
	}
	r.UniverseNodes = universe.Nodes
	r.UniverseEdges = universe.Edges
	slog.Info("catalog built",
		"networks", r.LoadedCount,
		"universe_nodes", r.UniverseNodes,
		"universe_edges", r.UniverseEdges,
	)

	r.SpotChecks = crossCheck(st, files)
	return r, nil
}

// crossCheck compares the scan with the built catalog: per-network counts
// must match what the scan predicts, and a random sample of node ids must be
// resolvable in the universe.
func crossCheck(st *store.Store, files []fileReport) []string {
	var checks []string

	summaries := st.List()
	byID := make(map[int64]int, len(summaries))
	for i, s := range summaries {
		byID[s.ID] = i
	}

	for _, f := range files {
		i, ok := byID[f.NetworkID]
		if !ok {
			checks = append(checks, fmt.Sprintf("❌ %s: expected network id %d, not in catalog", f.File, f.NetworkID))
			continue
		}
		s := summaries[i]
		wantNodes := f.Nodes - f.DupNodeIDs - f.EmptyNodeIDs
		wantEdges := f.Edges - len(f.Dangling)
		if s.Nodes == wantNodes && s.Edges == wantEdges {
			checks = append(checks, fmt.Sprintf("✅ %s: id=%d nodes=%d edges=%d", f.File, s.ID, s.Nodes, s.Edges))
		} else {
			checks = append(checks, fmt.Sprintf("❌ %s: catalog holds %d/%d, scan predicts %d/%d",
				f.File, s.Nodes, s.Edges, wantNodes, wantEdges))
		}
	}

	// Sample up to 5 node ids across the scan and resolve each in the universe.
	var ids []string
	for _, f := range files {
		ids = append(ids, f.SampleIDs...)
	}
	if len(ids) == 0 {
		return checks
	}
	count := min(5, len(ids))
	for _, idx := range rand.Perm(len(ids))[:count] {
		id := ids[idx]
		node, err := st.NodeByID(id)
		if err != nil {
			checks = append(checks, fmt.Sprintf("❌ %s: not resolvable in universe: %v", id, err))
			continue
		}
		checks = append(checks, fmt.Sprintf("✅ %s: cname=%s function=%s", node.ID, node.CName, node.Function))
	}
	return checks
}

// defectCount totals everything strict mode treats as fatal.
func (r *report) defectCount() int {
	n := len(r.Broken)
	for _, f := range r.Files {
		n += f.DupNodeIDs + f.EmptyNodeIDs + len(f.Dangling)
	}
	for _, c := range r.SpotChecks {
		if strings.HasPrefix(c, "❌") {
			n++
		}
	}
	return n
}
