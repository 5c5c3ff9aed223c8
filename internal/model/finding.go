package model

// Finding is a flagged greenwashing risk indicator tied to a quoted excerpt.
// Findings are created during the sequential pass and never mutated.
type Finding struct {
	Page      int    `json:"page"`      // Page the quote was taken from
	Category  string `json:"category"`  // Caller-defined tag name (open set, not an enum)
	Quote     string `json:"quote"`     // Verbatim excerpt from the page text
	Reasoning string `json:"reasoning"` // Free-text justification
}
