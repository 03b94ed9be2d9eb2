package model

import (
	"strings"
	"time"
)

// providerTimeLayout is the creation-timestamp format used by the search
// provider, e.g. "Mon Jul 28 17:12:07 +0000 2025".
const providerTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Candidate is a raw, unverified post returned by the search provider.
// It lives only for the duration of one pipeline pass: fetched, filtered
// through the seen-set, classified, and then discarded unless verified.
type Candidate struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
	Author    Author `json:"author"`
}

// Author identifies the posting account.
type Author struct {
	UserName string `json:"userName"`
}

// Source returns the author handle, or "Unknown" when absent.
func (c Candidate) Source() string {
	if c.Author.UserName == "" {
		return "Unknown"
	}
	return c.Author.UserName
}

// NormalizeTimestamp converts a provider-native creation timestamp to
// ISO-8601. Timestamps already in ISO form pass through unchanged; an
// unparseable value is returned as-is rather than dropped, so the raw
// information is never lost.
func NormalizeTimestamp(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(time.RFC3339)
	}
	if t, err := time.Parse(providerTimeLayout, raw); err == nil {
		return t.Format(time.RFC3339)
	}
	return raw
}

// TitleFromText derives a display title from post text: the first 100
// characters, with an ellipsis when truncated.
func TitleFromText(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > 100 {
		return string(runes[:100]) + "..."
	}
	return text
}
