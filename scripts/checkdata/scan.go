package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/belnav/belnav/internal/models"
)

// networkFile mirrors the on-disk node-link shape the server loads.
type networkFile struct {
	Name  string        `json:"name,omitempty"`
	Nodes []models.Node `json:"nodes"`
	Links []models.Edge `json:"links"`
}

// fileReport describes one scanned data file and the defects found in it.
type fileReport struct {
	File      string
	NetworkID int64
	Name      string

	Nodes int
	Edges int

	DupNodeIDs    int
	EmptyNodeIDs  int
	MissingCNames int
	Dangling      []danglingEdge

	// SampleIDs holds a few node ids for the universe spot check.
	SampleIDs []string
}

// danglingEdge records an edge whose endpoint is not defined in the same file.
// The loader drops these, so they never reach the catalog.
type danglingEdge struct {
	Source string
	Target string
	Reason string
}

// scanDir inspects every *.json file in filename order, the same order the
// loader assigns network ids in. Broken files keep their id slot, so the
// reports carry the id each loadable file will receive.
func scanDir(dir string) ([]fileReport, []brokenFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no *.json files in %s", dir)
	}
	sort.Strings(paths)

	var files []fileReport
	var broken []brokenFile
	for i, path := range paths {
		fr, err := scanFile(path)
		if err != nil {
			broken = append(broken, brokenFile{Path: filepath.Base(path), Reason: err.Error()})
			continue
		}
		fr.NetworkID = int64(i + 1)
		files = append(files, fr)
	}
	return files, broken, nil
}

// scanFile decodes one node-link file and collects its defects.
func scanFile(path string) (fileReport, error) {
	fr := fileReport{File: filepath.Base(path)}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fr, fmt.Errorf("read: %w", err)
	}
	var nf networkFile
	if err := json.Unmarshal(raw, &nf); err != nil {
		return fr, fmt.Errorf("decode: %w", err)
	}

	fr.Name = nf.Name
	if fr.Name == "" {
		fr.Name = strings.TrimSuffix(fr.File, ".json")
	}
	fr.Nodes = len(nf.Nodes)
	fr.Edges = len(nf.Links)

	seen := make(map[string]bool, len(nf.Nodes))
	for _, n := range nf.Nodes {
		switch {
		case n.ID == "":
			fr.EmptyNodeIDs++
		case seen[n.ID]:
			fr.DupNodeIDs++
		default:
			seen[n.ID] = true
			if len(fr.SampleIDs) < 3 {
				fr.SampleIDs = append(fr.SampleIDs, n.ID)
			}
		}
		if n.CName == "" {
			fr.MissingCNames++
		}
	}

	for _, e := range nf.Links {
		switch {
		case !seen[e.Source]:
			fr.Dangling = append(fr.Dangling, danglingEdge{e.Source, e.Target, "unknown source"})
		case !seen[e.Target]:
			fr.Dangling = append(fr.Dangling, danglingEdge{e.Source, e.Target, "unknown target"})
		}
	}
	return fr, nil
}
