package analyze

import (
	"strings"
	"unicode/utf8"
)

const (
	// Words at or below this length carry too little signal to gate on.
	keywordMinLength = 5

	// Fraction of keywords that must hit a chunk before verification is
	// worth an oracle call. Strictly greater-than: 1 of 3 keywords (33%)
	// passes, 0 of 3 does not. Recall-biased on purpose; precision is the
	// adjudication step's job.
	matchThreshold = 0.3
)

// claimKeywords tokenizes a claim into the words long enough to act as
// pre-filter keywords. A claim with no usable keywords can never be
// pre-filtered and is skipped by deep verification entirely.
func claimKeywords(text string) []string {
	var keywords []string
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) > keywordMinLength {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// passesFilter reports whether a candidate chunk text overlaps the keyword
// set enough to justify an adjudication call. Hits are case-insensitive
// substring matches.
func passesFilter(keywords []string, text string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			hits++
		}
	}
	return float64(hits)/float64(len(keywords)) > matchThreshold
}
