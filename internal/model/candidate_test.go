package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimestamp_ProviderFormat(t *testing.T) {
	got := NormalizeTimestamp("Mon Jul 28 17:12:07 +0000 2025")
	assert.Equal(t, "2025-07-28T17:12:07Z", got)
}

func TestNormalizeTimestamp_AlreadyISO(t *testing.T) {
	got := NormalizeTimestamp("2025-07-28T17:12:07Z")
	assert.Equal(t, "2025-07-28T17:12:07Z", got)
}

func TestNormalizeTimestamp_Unparseable(t *testing.T) {
	// Garbage passes through untouched rather than being dropped.
	assert.Equal(t, "yesterday-ish", NormalizeTimestamp("yesterday-ish"))
}

func TestNormalizeTimestamp_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeTimestamp(""))
}

func TestTitleFromText_Short(t *testing.T) {
	assert.Equal(t, "House fire on Main St", TitleFromText("  House fire on Main St  "))
}

func TestTitleFromText_Truncated(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := TitleFromText(long)
	assert.Len(t, got, 103)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTitleFromText_MultibyteBoundary(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := TitleFromText(long)
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}

func TestCandidateSource(t *testing.T) {
	assert.Equal(t, "KTAR923", Candidate{Author: Author{UserName: "KTAR923"}}.Source())
	assert.Equal(t, "Unknown", Candidate{}.Source())
}

func TestNewIncident(t *testing.T) {
	c := Candidate{
		ID:        "1949843538046603655",
		Text:      "Two firefighters were evaluated for injuries in a house fire on Sunday.",
		URL:       "https://x.com/KTAR923/status/1949843538046603655",
		CreatedAt: "Mon Jul 28 14:45:00 +0000 2025",
		Author:    Author{UserName: "KTAR923"},
	}

	inc := NewIncident(c, "yes", 9, "Arizona", "Maricopa")

	assert.Equal(t, c.ID, inc.TweetID)
	assert.Equal(t, c.Text, inc.Content)
	assert.Equal(t, c.Text, inc.Title)
	assert.Equal(t, "2025-07-28T14:45:00Z", inc.PublishedDate)
	assert.Equal(t, "KTAR923", inc.Source)
	assert.Equal(t, 9, inc.FireRelatedScore)
	assert.Equal(t, "Arizona", inc.State)
	assert.Equal(t, "Maricopa", inc.County)
	assert.Equal(t, "yes", inc.VerificationResult)
	assert.NotEmpty(t, inc.VerifiedAt)
}
