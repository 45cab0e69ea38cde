package store

import (
	"github.com/tidwall/btree"

	"github.com/belnav/belnav/internal/models"
)

// Tree builds the annotation tree of the filtered subgraph: one entry per
// annotation key carried by a surviving edge, with the observed values as
// children. Keys and values are sorted.
func (s *Store) Tree(args models.QueryArgs) ([]models.TreeEntry, error) {
	g, err := s.Query(args)
	if err != nil {
		return nil, err
	}

	var keys btree.Map[string, *btree.Set[string]]
	for _, e := range g.Links {
		for key, vals := range e.Annotations {
			set, ok := keys.Get(key)
			if !ok {
				set = &btree.Set[string]{}
				keys.Set(key, set)
			}
			for _, v := range vals {
				set.Insert(v)
			}
		}
	}

	out := make([]models.TreeEntry, 0, keys.Len())
	keys.Scan(func(key string, vals *btree.Set[string]) bool {
		entry := models.TreeEntry{
			Text:     key,
			Children: make([]models.TreeEntry, 0, vals.Len()),
		}
		vals.Scan(func(v string) bool {
			entry.Children = append(entry.Children, models.TreeEntry{Text: v})
			return true
		})
		out = append(out, entry)
		return true
	})
	return out, nil
}
