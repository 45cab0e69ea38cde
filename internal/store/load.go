package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/belnav/belnav/internal/models"
)

// networkFile is the on-disk shape of one network: node-link JSON with an
// optional top-level name.
type networkFile struct {
	Name  string        `json:"name,omitempty"`
	Nodes []models.Node `json:"nodes"`
	Links []models.Edge `json:"links"`
}

// LoadDir replaces the catalog with every *.json node-link file in dir.
// Network ids follow filename order starting at 1, so the same directory
// always yields the same ids. Unreadable files are skipped and leave their
// id slot empty, keeping the remaining ids stable.
func (s *Store) LoadDir(dir string) error {
	pattern := filepath.Join(dir, "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)

	type loaded struct {
		id   int64
		name string
		file *networkFile
	}
	files := make([]loaded, 0, len(paths))
	for i, path := range paths {
		nf, err := readNetworkFile(path)
		if err != nil {
			s.log.WithError(err).WithField("file", path).Warn("skipping network file")
			continue
		}
		name := nf.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".json")
		}
		files = append(files, loaded{id: int64(i + 1), name: name, file: nf})
	}

	s.mu.Lock()
	s.resetLocked()
	for _, f := range files {
		if err := s.addNetworkLocked(f.id, f.name, &models.NodeLinkGraph{Nodes: f.file.Nodes, Links: f.file.Links}); err != nil {
			s.log.WithError(err).WithField("network", f.name).Warn("skipping network")
		}
	}
	s.rebuildLabelsLocked()
	s.dir = dir
	s.generation++
	s.publishSizesLocked()
	networks := s.networks.Len()
	nodes := len(s.universe.nodes)
	edges := len(s.universe.links)
	generation := s.generation
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"dir":        dir,
		"networks":   networks,
		"nodes":      nodes,
		"edges":      edges,
		"generation": generation,
	}).Info("catalog loaded")
	return nil
}

func readNetworkFile(path string) (*networkFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	var nf networkFile
	if err := json.Unmarshal(raw, &nf); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return &nf, nil
}
