package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/internal/store"
)

func candidate(id, text string) model.Candidate {
	return model.Candidate{
		ID:        id,
		Text:      text,
		URL:       "https://x.com/a/status/" + id,
		CreatedAt: "2025-07-28T17:12:07Z",
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewJSON(filepath.Join(t.TempDir(), "incidents.json"))
}

func TestRun_DedupAndShortSkip(t *testing.T) {
	search := newMockSearch()
	search.byQuery["Texas fire"] = []model.Candidate{
		candidate("1", "Large apartment fire on the east side, multiple units damaged"),
		candidate("1", "Large apartment fire on the east side, multiple units damaged"),
		candidate("2", "small"),
	}

	clf := &mockClassifier{accept: map[string]bool{"1": true}}
	st := newTestStore(t)
	p := New(search, clf, st, Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire"},
		MaxComboLen: 1,
		MaxResults:  20,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	// Two raw candidates share an id and one is below the length floor,
	// so exactly one reaches the classifier.
	assert.Equal(t, []string{"1"}, clf.attempts)
	assert.Equal(t, 3, summary.Fetched)
	assert.Equal(t, 2, summary.Unique)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Stored)

	records, err := st.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].TweetID)
}

func TestRun_SeenSetSpansQueries(t *testing.T) {
	search := newMockSearch()
	c := candidate("1", "Wildfire spreading near the county line, evacuations underway now")
	search.byQuery["Texas fire"] = []model.Candidate{c}
	search.byQuery["Texas smoke"] = []model.Candidate{c}

	clf := &mockClassifier{accept: map[string]bool{"1": true}}
	p := New(search, clf, newTestStore(t), Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire", "smoke"},
		MaxComboLen: 1,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, clf.attempts)
	assert.Equal(t, 1, summary.Stored)
}

func TestRun_SeededFromStore(t *testing.T) {
	st := newTestStore(t)
	seeded := model.NewIncident(candidate("1", "Structure fire reported downtown with heavy smoke showing"), "yes", 7, "Texas", "Travis")
	_, err := st.Append(context.Background(), seeded)
	require.NoError(t, err)

	search := newMockSearch()
	search.byQuery["Texas fire"] = []model.Candidate{
		candidate("1", "Structure fire reported downtown with heavy smoke showing"),
	}

	clf := &mockClassifier{accept: map[string]bool{"1": true}}
	p := New(search, clf, st, Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire"},
		MaxComboLen: 1,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clf.attempts)
	assert.Equal(t, 0, summary.Stored)
}

func TestRun_SearchFailureSkipsQueryOnly(t *testing.T) {
	search := newMockSearch()
	search.errors["Texas fire"] = eris.New("status 500")
	search.byQuery["Texas smoke"] = []model.Candidate{
		candidate("2", "Grass fire jumped the highway and is threatening several homes"),
	}

	clf := &mockClassifier{accept: map[string]bool{"2": true}}
	p := New(search, clf, newTestStore(t), Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire", "smoke"},
		MaxComboLen: 1,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Queries)
	assert.Equal(t, 1, summary.Stored)
}

func TestRun_AccountPhaseAfterQueries(t *testing.T) {
	search := newMockSearch()
	search.byQuery["Texas fire"] = nil
	search.byAuthor["DFWscanner"] = []model.Candidate{
		candidate("9", "Working fire at a commercial building, second alarm requested"),
	}

	clf := &mockClassifier{accept: map[string]bool{"9": true}}
	p := New(search, clf, newTestStore(t), Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire"},
		Accounts:    []string{"DFWscanner"},
		MaxComboLen: 1,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Texas fire"}, search.queries)
	assert.Equal(t, []string{"DFWscanner"}, search.authors)
	assert.Equal(t, 1, summary.Stored)
}

func TestRun_CancelStopsBetweenQueries(t *testing.T) {
	search := newMockSearch()
	clf := &mockClassifier{}
	p := New(search, clf, newTestStore(t), Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire"},
		MaxComboLen: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "cancelled"))
	assert.Empty(t, search.queries)
}

func TestRun_RejectedCandidateNotStored(t *testing.T) {
	search := newMockSearch()
	search.byQuery["Texas fire"] = []model.Candidate{
		candidate("1", "Controlled burn scheduled by the parks department this weekend"),
	}

	clf := &mockClassifier{accept: map[string]bool{}}
	st := newTestStore(t)
	p := New(search, clf, st, Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire"},
		MaxComboLen: 1,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, clf.attempts)
	assert.Equal(t, 0, summary.Verified)

	records, _ := st.Records(context.Background())
	assert.Empty(t, records)
}

func TestRun_MirrorsXLSX(t *testing.T) {
	xlsxPath := filepath.Join(t.TempDir(), "incidents.xlsx")
	search := newMockSearch()
	search.byQuery["Texas fire"] = []model.Candidate{
		candidate("1", "House fire with entrapment reported, crews on scene now"),
	}

	clf := &mockClassifier{accept: map[string]bool{"1": true}}
	p := New(search, clf, newTestStore(t), Config{
		Locations:   []string{"Texas"},
		Keywords:    []string{"fire"},
		MaxComboLen: 1,
		XLSXPath:    xlsxPath,
	})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	mirrored, err := store.ReadXLSX(xlsxPath)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.Equal(t, "1", mirrored[0].TweetID)
}
