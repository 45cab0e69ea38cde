package store

import (
	"strconv"
	"strings"

	"github.com/tidwall/btree"

	"github.com/belnav/belnav/internal/models"
)

// SuggestNodes matches node display labels by case-insensitive substring.
// Labels come from the universe index, so duplicated canonical names carry
// their function qualifier and every hit resolves to exactly one node id.
func (s *Store) SuggestNodes(q string) []models.Suggestion {
	out := []models.Suggestion{}
	if q == "" {
		return out
	}

	needle := strings.ToLower(q)

	s.mu.RLock()
	defer s.mu.RUnlock()

	s.labels.Scan(func(label, id string) bool {
		if strings.Contains(strings.ToLower(label), needle) {
			out = append(out, models.Suggestion{Text: label, ID: id})
		}
		return true
	})
	return out
}

// SuggestAuthors matches citation authors by case-insensitive substring.
// Ids enumerate the matches.
func (s *Store) SuggestAuthors(q string) []models.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return suggestFromSet(&s.authors, q)
}

// SuggestPubmeds matches PubMed identifiers by substring. Ids enumerate the
// matches.
func (s *Store) SuggestPubmeds(q string) []models.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return suggestFromSet(&s.pmids, q)
}

func suggestFromSet(set *btree.Set[string], q string) []models.Suggestion {
	out := []models.Suggestion{}
	if q == "" {
		return out
	}

	needle := strings.ToLower(q)
	set.Scan(func(v string) bool {
		if strings.Contains(strings.ToLower(v), needle) {
			out = append(out, models.Suggestion{Text: v, ID: strconv.Itoa(len(out))})
		}
		return true
	})
	return out
}
