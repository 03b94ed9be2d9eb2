package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// NotAvailable is the sentinel stored when a location could not be
// determined or validated.
const NotAvailable = "N/A"

// Analysis is the parsed result of the extraction stage.
type Analysis struct {
	Score  int
	State  string
	County string
}

var (
	scoreRe  = regexp.MustCompile(`Score:\s*(\d+)`)
	stateRe  = regexp.MustCompile(`State:\s*([A-Za-z\s]+|N/A)`)
	countyRe = regexp.MustCompile(`County:\s*([^\n]+)`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// validStates is the canonical list of recognized US state names. Anything
// the model returns outside this list is downgraded to N/A.
var validStates = map[string]bool{
	"Alabama": true, "Alaska": true, "Arizona": true, "Arkansas": true,
	"California": true, "Colorado": true, "Connecticut": true, "Delaware": true,
	"Florida": true, "Georgia": true, "Hawaii": true, "Idaho": true,
	"Illinois": true, "Indiana": true, "Iowa": true, "Kansas": true,
	"Kentucky": true, "Louisiana": true, "Maine": true, "Maryland": true,
	"Massachusetts": true, "Michigan": true, "Minnesota": true, "Mississippi": true,
	"Missouri": true, "Montana": true, "Nebraska": true, "Nevada": true,
	"New Hampshire": true, "New Jersey": true, "New Mexico": true, "New York": true,
	"North Carolina": true, "North Dakota": true, "Ohio": true, "Oklahoma": true,
	"Oregon": true, "Pennsylvania": true, "Rhode Island": true, "South Carolina": true,
	"South Dakota": true, "Tennessee": true, "Texas": true, "Utah": true,
	"Vermont": true, "Virginia": true, "Washington": true, "West Virginia": true,
	"Wisconsin": true, "Wyoming": true,
}

// parseAnalysis parses the extraction stage's fixed-format response.
// Anything that fails to parse degrades to the zero analysis
// (0, N/A, N/A) rather than erroring: an unparseable response means the
// candidate is simply not persisted.
func parseAnalysis(answer string) Analysis {
	a := Analysis{State: NotAvailable, County: NotAvailable}

	if m := scoreRe.FindStringSubmatch(answer); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.Score = n
			if a.Score > 10 {
				a.Score = 10
			}
		}
	}
	if m := stateRe.FindStringSubmatch(answer); m != nil {
		a.State = collapseSpace(m[1])
	}
	if m := countyRe.FindStringSubmatch(answer); m != nil {
		a.County = collapseSpace(m[1])
	}

	a.State, a.County = repairCountyLeak(a.State, a.County)

	if a.State != NotAvailable && !validStates[a.State] {
		a.State = NotAvailable
	}
	if a.County == "" {
		a.County = NotAvailable
	}

	return a
}

// repairCountyLeak fixes a known upstream failure mode where county
// information bleeds into the state field, e.g. "Arizona County Pima".
// The fragment before the marker becomes the state; when the county field
// carried nothing, the fragment after the marker becomes the county.
func repairCountyLeak(state, county string) (string, string) {
	if state == NotAvailable || !strings.Contains(state, "County") {
		return state, county
	}

	parts := strings.Split(state, "County")
	head := strings.TrimSpace(parts[0])

	if county == NotAvailable || county == "" {
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			county = strings.TrimSpace(parts[1])
		} else if head != "" {
			county = head
		}
	}
	if head != "" {
		state = head
	}

	return state, county
}

// isAffirmative reports whether a relevance verdict counts as "yes": the
// trimmed response must begin with "yes", case-insensitively. Anything
// else, including malformed responses, is a "no".
func isAffirmative(verdict string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(verdict)), "yes")
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
