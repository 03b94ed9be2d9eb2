package model

import "time"

// Incident is a persisted verification record: a candidate that passed the
// relevance gate with a score at or above the acceptance threshold.
// Incidents are append-only; once written they are never mutated.
type Incident struct {
	TweetID            string `json:"tweet_id"`
	Title              string `json:"title"`
	Content            string `json:"content"`
	PublishedDate      string `json:"published_date"`
	URL                string `json:"url"`
	Source             string `json:"source"`
	FireRelatedScore   int    `json:"fire_related_score"`
	State              string `json:"state"`
	County             string `json:"county"`
	VerificationResult string `json:"verification_result"`
	VerifiedAt         string `json:"verified_at"`
}

// NewIncident builds an Incident from a candidate and its classification
// outcome. The verdict is stored raw, exactly as the classifier returned it.
func NewIncident(c Candidate, verdict string, score int, state, county string) Incident {
	return Incident{
		TweetID:            c.ID,
		Title:              TitleFromText(c.Text),
		Content:            c.Text,
		PublishedDate:      NormalizeTimestamp(c.CreatedAt),
		URL:                c.URL,
		Source:             c.Source(),
		FireRelatedScore:   score,
		State:              state,
		County:             county,
		VerificationResult: verdict,
		VerifiedAt:         time.Now().Format(time.RFC3339),
	}
}
