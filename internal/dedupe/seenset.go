// Package dedupe filters already-seen candidates out of search batches
// and detects near-duplicate content in finished output.
package dedupe

import (
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/model"
)

// SeenSet tracks candidate identifiers observed during a run, seeded with
// ids already persisted by earlier runs. It only grows; an id that enters
// the set is never classified again.
//
// This relies on the search provider returning globally stable ids across
// repeated and overlapping queries. The store's id-unique append is the
// backstop if that assumption ever breaks.
type SeenSet struct {
	ids map[string]struct{}
}

// NewSeenSet creates a SeenSet pre-populated with the given identifiers.
func NewSeenSet(seed []string) *SeenSet {
	ids := make(map[string]struct{}, len(seed))
	for _, id := range seed {
		ids[id] = struct{}{}
	}
	return &SeenSet{ids: ids}
}

// Contains reports whether id has been seen.
func (s *SeenSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add marks id as seen. Returns false if it was already present.
func (s *SeenSet) Add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of seen identifiers.
func (s *SeenSet) Len() int {
	return len(s.ids)
}

// FilterNovel returns the candidates whose ids have not been seen, in
// first-seen order, marking each admitted id as seen. Duplicate ids within
// the batch collapse to the first occurrence. Candidates without an id
// cannot be deduplicated safely and are dropped.
func FilterNovel(candidates []model.Candidate, seen *SeenSet) []model.Candidate {
	var novel []model.Candidate
	for _, c := range candidates {
		if c.ID == "" {
			zap.L().Debug("dedupe: dropping candidate without id",
				zap.String("url", c.URL),
			)
			continue
		}
		if seen.Add(c.ID) {
			novel = append(novel, c)
		}
	}
	return novel
}
