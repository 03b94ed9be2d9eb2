package dedupe

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSimilarityThreshold is the ratio at or above which two texts are
// treated as duplicates by the output cleanup command.
const DefaultSimilarityThreshold = 0.8

// Similar reports whether two texts are the same incident written twice:
// either identical after normalization, or with a bigram similarity ratio
// at or above threshold.
func Similar(a, b string, threshold float64) bool {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return diceRatio(na, nb) >= threshold
}

// normalize lowercases, NFC-normalizes and collapses whitespace so that
// formatting differences never mask a duplicate.
func normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// diceRatio computes the Sorensen-Dice coefficient over character bigrams,
// a cheap stand-in for full sequence matching that behaves well on short
// social-media posts.
func diceRatio(a, b string) float64 {
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	var overlap int
	for g, n := range ba {
		if m, ok := bb[g]; ok {
			if m < n {
				overlap += m
			} else {
				overlap += n
			}
		}
	}

	totalA, totalB := 0, 0
	for _, n := range ba {
		totalA += n
	}
	for _, n := range bb {
		totalB += n
	}
	return 2 * float64(overlap) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}
