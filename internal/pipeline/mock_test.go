package pipeline

import (
	"context"

	"github.com/agilemorph/firewatch/internal/model"
)

// mockSearch serves canned candidate batches keyed by query string, and
// records the order queries arrived in.
type mockSearch struct {
	byQuery  map[string][]model.Candidate
	byAuthor map[string][]model.Candidate
	errors   map[string]error
	queries  []string
	authors  []string
}

func newMockSearch() *mockSearch {
	return &mockSearch{
		byQuery:  map[string][]model.Candidate{},
		byAuthor: map[string][]model.Candidate{},
		errors:   map[string]error{},
	}
}

func (m *mockSearch) Search(_ context.Context, query string, maxResults int) ([]model.Candidate, error) {
	m.queries = append(m.queries, query)
	if err := m.errors[query]; err != nil {
		return nil, err
	}
	out := m.byQuery[query]
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (m *mockSearch) SearchByAuthor(_ context.Context, handle string, _ int) ([]model.Candidate, error) {
	m.authors = append(m.authors, handle)
	if err := m.errors["from:"+handle]; err != nil {
		return nil, err
	}
	return m.byAuthor[handle], nil
}

// mockClassifier verifies every candidate whose id appears in accept,
// counting how many classifications were attempted.
type mockClassifier struct {
	minLen   int
	accept   map[string]bool
	attempts []string
}

func (m *mockClassifier) TooShort(text string) bool {
	min := m.minLen
	if min == 0 {
		min = 20
	}
	return len(text) < min
}

func (m *mockClassifier) Classify(_ context.Context, cand model.Candidate) (*model.Incident, bool) {
	m.attempts = append(m.attempts, cand.ID)
	if !m.accept[cand.ID] {
		return nil, false
	}
	inc := model.NewIncident(cand, "yes", 8, "Texas", "Travis")
	return &inc, true
}
