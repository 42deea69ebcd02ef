package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Passage represents a token-bounded unit of book text produced by segmentation.
// Passages are the unit of embedding, upload and retrieval.
type Passage struct {
	// Content is the normalised passage text. Never empty after trimming.
	Content string `json:"content"`

	// DocumentID identifies the source book, typically its title.
	DocumentID string `json:"documentId"`

	// SequenceIndex is the zero-based position among passages of the same
	// document. Indexes are dense: a document with N passages uses exactly
	// 0..N-1. Assigned once at segmentation time and never reassigned.
	SequenceIndex int `json:"sequenceIndex"`
}

// PassageSet is the persisted output of one segmentation run: the ordered
// passages of a document together with the parameters that produced them.
// The parameters let an operator spot that a stored set was chunked under
// different settings than the current configuration; upload itself does not
// verify this. Rechunking under new settings requires resetting upload
// progress for the namespace by hand.
type PassageSet struct {
	// DocumentID is the source book identifier shared by all passages.
	DocumentID string `json:"documentId"`

	// Namespace is the derived isolation key for this document.
	Namespace string `json:"namespace"`

	// MaxTokens is the token budget the set was segmented under.
	MaxTokens int `json:"maxTokens"`

	// Tokenizer names the token counter used during segmentation.
	Tokenizer string `json:"tokenizer"`

	// Passages is the ordered, dense sequence of passages.
	Passages []Passage `json:"passages"`
}

// VectorMetadata travels with each vector record so retrieval can display
// the passage without a second lookup.
type VectorMetadata struct {
	DocumentID    string `json:"documentId"`
	SequenceIndex int    `json:"sequenceIndex"`
	Content       string `json:"content"`
}

// VectorRecord is one upsert unit for the vector store. The ID is
// deterministic per (namespace, sequence index) so re-uploading a passage
// overwrites its previous record instead of duplicating it.
type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// Match is a retrieval result: a stored passage and its similarity score as
// reported by the vector store. Matches are ordered by descending score.
type Match struct {
	DocumentID    string
	SequenceIndex int
	Content       string
	Score         float64
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\w-]`)
)

// Namespace derives the vector-store namespace for a document title:
// lower-cased, whitespace collapsed to single hyphens, remaining non-word
// characters stripped. Two titles that normalise to the same namespace are
// indistinguishable to the system; this is a documented limitation.
func Namespace(title string) string {
	ns := strings.ToLower(strings.TrimSpace(title))
	ns = whitespaceRun.ReplaceAllString(ns, "-")
	return nonWordChars.ReplaceAllString(ns, "")
}

// RecordID builds the deterministic vector record ID for a passage.
func RecordID(namespace string, sequenceIndex int) string {
	return fmt.Sprintf("%s-chunk-%d", namespace, sequenceIndex)
}
