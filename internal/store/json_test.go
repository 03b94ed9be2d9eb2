package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilemorph/firewatch/internal/model"
)

func testIncident(id string) model.Incident {
	return model.Incident{
		TweetID:            id,
		Title:              "House fire in Payson",
		Content:            "House fire in Payson destroyed a garage overnight.",
		PublishedDate:      "2025-07-28T17:12:07Z",
		URL:                "https://x.com/a/status/" + id,
		Source:             "scanner",
		FireRelatedScore:   8,
		State:              "Arizona",
		County:             "Gila",
		VerificationResult: "yes",
		VerifiedAt:         "2025-07-29T01:06:36Z",
	}
}

func TestJSONStore_AppendThenDuplicate(t *testing.T) {
	s := NewJSON(filepath.Join(t.TempDir(), "incidents.json"))
	ctx := context.Background()

	ok, err := s.Append(ctx, testIncident("1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Append(ctx, testIncident("1"))
	require.NoError(t, err)
	assert.False(t, ok)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestJSONStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")
	ctx := context.Background()

	s1 := NewJSON(path)
	_, err := s1.Append(ctx, testIncident("1"))
	require.NoError(t, err)

	// A fresh handle on the same file sees the record and still dedupes.
	s2 := NewJSON(path)
	ok, err := s2.Append(ctx, testIncident("1"))
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := s2.SeenIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
}

func TestJSONStore_CorruptFileRecovered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{not json"), 0o644))

	s := NewJSON(path)
	ok, err := s.Append(context.Background(), testIncident("1"))
	require.NoError(t, err)
	assert.True(t, ok)

	records, err := s.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestJSONStore_ConcurrentAppends(t *testing.T) {
	s := NewJSON(filepath.Join(t.TempDir(), "incidents.json"))
	ctx := context.Background()

	const n = 120
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, testIncident(fmt.Sprintf("id-%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func TestJSONStore_ConcurrentDuplicateWritesOnce(t *testing.T) {
	s := NewJSON(filepath.Join(t.TempDir(), "incidents.json"))
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var inserted int
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Append(ctx, testIncident("same"))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, inserted)
	records, _ := s.Records(ctx)
	assert.Len(t, records, 1)
}

func TestJSONStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewJSON(filepath.Join(dir, "incidents.json"))
	_, err := s.Append(context.Background(), testIncident("1"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "incidents.json", entries[0].Name())
}

func TestOpen_DriverSelection(t *testing.T) {
	dir := t.TempDir()

	js, err := Open("json", filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, js)

	sq, err := Open("sqlite", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sq)
	require.NoError(t, sq.Close())

	_, err = Open("postgres", "")
	assert.Error(t, err)
}
