package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agilemorph/firewatch/internal/model"
)

func cand(id, text string) model.Candidate {
	return model.Candidate{ID: id, Text: text}
}

func TestFilterNovel_FirstSeenWins(t *testing.T) {
	seen := NewSeenSet(nil)
	batch := []model.Candidate{
		cand("1", "first"),
		cand("2", "second"),
		cand("1", "duplicate of first"),
	}

	novel := FilterNovel(batch, seen)

	assert.Len(t, novel, 2)
	assert.Equal(t, "first", novel[0].Text)
	assert.Equal(t, "second", novel[1].Text)
}

func TestFilterNovel_AcrossBatches(t *testing.T) {
	seen := NewSeenSet(nil)

	b1 := FilterNovel([]model.Candidate{cand("1", ""), cand("2", "")}, seen)
	b2 := FilterNovel([]model.Candidate{cand("2", ""), cand("3", ""), cand("1", "")}, seen)

	ids := make(map[string]int)
	for _, c := range append(b1, b2...) {
		ids[c.ID]++
	}
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1}, ids)
	// Order within each batch preserves first-seen order.
	assert.Equal(t, "3", b2[0].ID)
}

func TestFilterNovel_SeededFromStore(t *testing.T) {
	seen := NewSeenSet([]string{"10", "20"})

	novel := FilterNovel([]model.Candidate{cand("10", ""), cand("30", "")}, seen)

	assert.Len(t, novel, 1)
	assert.Equal(t, "30", novel[0].ID)
	assert.Equal(t, 3, seen.Len())
}

func TestFilterNovel_DropsMissingID(t *testing.T) {
	seen := NewSeenSet(nil)

	novel := FilterNovel([]model.Candidate{cand("", "no id"), cand("1", "ok")}, seen)

	assert.Len(t, novel, 1)
	assert.Equal(t, "1", novel[0].ID)
	assert.False(t, seen.Contains(""))
}

func TestSeenSet_AddIdempotent(t *testing.T) {
	seen := NewSeenSet(nil)
	assert.True(t, seen.Add("x"))
	assert.False(t, seen.Add("x"))
	assert.Equal(t, 1, seen.Len())
}

func TestSimilar_ExactAfterNormalization(t *testing.T) {
	assert.True(t, Similar("House  Fire on MAIN st", "house fire on main st", 0.8))
}

func TestSimilar_NearDuplicate(t *testing.T) {
	a := "Crews battling a two-alarm house fire on Main Street this morning"
	b := "Crews battling a two-alarm house fire on Main Street this morning!"
	assert.True(t, Similar(a, b, DefaultSimilarityThreshold))
}

func TestSimilar_Different(t *testing.T) {
	a := "Crews battling a two-alarm house fire on Main Street"
	b := "Severe hail damage reported across northern Colorado suburbs"
	assert.False(t, Similar(a, b, DefaultSimilarityThreshold))
}

func TestSimilar_EmptyNeverMatches(t *testing.T) {
	assert.False(t, Similar("", "", 0.8))
	assert.False(t, Similar("something", "", 0.8))
}
