// Package heuristic provides an offline TokenCounter approximation for use
// when a BPE encoding cannot be loaded, such as air-gapped environments.
package heuristic

import (
	"unicode/utf8"

	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = Counter{}

// charsPerToken is the rough English-text ratio for BPE vocabularies.
const charsPerToken = 4

// Counter estimates tokens at ~4 characters per token, rounding up.
// Deterministic and cheap, but only an approximation of a real tokenizer;
// passages segmented with it may land slightly off a model's true budget.
type Counter struct{}

// Count returns the estimated token count of text.
func (Counter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// Name identifies the estimator.
func (Counter) Name() string {
	return "heuristic"
}
