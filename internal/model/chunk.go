package model

// Chunk is one page of extracted report content. Chunks are produced in
// document page order and are never mutated after extraction.
type Chunk struct {
	Page   int    `json:"page"`   // 1-based PDF page number
	Text   string `json:"text"`   // Extracted page text (may include visual-description markers)
	Source string `json:"source"` // Originating report file name
}
