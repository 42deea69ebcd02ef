// Package segmenter partitions book text into token-bounded passages.
//
// Segmentation is paragraph-first: whole paragraphs are packed into a
// passage while they fit the token budget. A paragraph that cannot fit any
// passage on its own falls back to sentence-level packing. Both tiers share
// one accumulate-until-budget primitive.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/normaliser"
)

// DefaultMaxTokens is the default token budget per passage.
const DefaultMaxTokens = 400

// Paragraph boundaries are runs of two-or-more line breaks in the raw,
// pre-normalised source. Normalisation collapses line breaks, so the split
// must happen first.
var paragraphBreak = regexp.MustCompile(`(?:\r?\n){2,}`)

// Segmenter splits raw document text into ordered passages.
type Segmenter struct {
	counter   driven.TokenCounter
	maxTokens int
}

// New creates a segmenter with the given token counter and budget.
// maxTokens must be positive.
func New(counter driven.TokenCounter, maxTokens int) (*Segmenter, error) {
	if counter == nil {
		return nil, fmt.Errorf("%w: segmenter requires a token counter", domain.ErrInvalidConfig)
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", domain.ErrInvalidConfig, maxTokens)
	}
	return &Segmenter{counter: counter, maxTokens: maxTokens}, nil
}

// MaxTokens returns the configured token budget.
func (s *Segmenter) MaxTokens() int {
	return s.maxTokens
}

// Segment partitions raw text into passages for documentID. Sequence
// indexes are dense, starting at zero, in source order. A document with no
// paragraphs yields an empty slice.
func (s *Segmenter) Segment(raw, documentID string) []domain.Passage {
	var passages []domain.Passage
	emit := func(content string) {
		passages = append(passages, domain.Passage{
			Content:       content,
			DocumentID:    documentID,
			SequenceIndex: len(passages),
		})
	}

	acc := newAccumulator(s.maxTokens)
	for _, para := range splitParagraphs(raw) {
		tokens := s.counter.Count(para)
		if acc.fits(tokens) {
			acc.add(para, tokens)
			continue
		}
		acc.flush(emit)

		if tokens > s.maxTokens {
			// The paragraph cannot fit any single passage as a unit;
			// consume it entirely at sentence granularity. The outer
			// accumulator stays empty afterwards.
			s.packSentences(para, emit)
			continue
		}
		acc.add(para, tokens)
	}
	acc.flush(emit)

	return passages
}

// packSentences packs the sentences of an oversized paragraph into as many
// passages as the budget requires. A single sentence above the budget still
// becomes its own passage; it is the only case where a passage may exceed
// the budget.
func (s *Segmenter) packSentences(para string, emit func(string)) {
	acc := newAccumulator(s.maxTokens)
	for _, sentence := range splitSentences(para) {
		tokens := s.counter.Count(sentence)
		if !acc.fits(tokens) {
			acc.flush(emit)
		}
		acc.add(sentence, tokens)
	}
	acc.flush(emit)
}

// splitParagraphs splits on blank-line runs, normalises each paragraph and
// discards empties.
func splitParagraphs(raw string) []string {
	parts := paragraphBreak.Split(raw, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := normaliser.Normalise(part); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences splits after '.', '?' or '!' followed by whitespace,
// keeping the punctuation with the preceding sentence. The trailing
// whitespace run is consumed; sentences carry no surrounding spaces.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isSentenceEnd(text[i]) {
			continue
		}
		if i+1 >= len(text) || !isSpace(text[i+1]) {
			continue
		}
		sentences = append(sentences, text[start:i+1])
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isSentenceEnd(c byte) bool {
	return c == '.' || c == '?' || c == '!'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// accumulator gathers text units until adding the next one would exceed the
// token budget. The budget check is inclusive: a unit landing exactly on
// the budget still fits.
type accumulator struct {
	max    int
	parts  []string
	tokens int
}

func newAccumulator(max int) *accumulator {
	return &accumulator{max: max}
}

func (a *accumulator) fits(tokens int) bool {
	return a.tokens+tokens <= a.max
}

func (a *accumulator) add(text string, tokens int) {
	a.parts = append(a.parts, text)
	a.tokens += tokens
}

// flush emits the accumulated units joined by single spaces and resets.
// An empty accumulator flushes to nothing.
func (a *accumulator) flush(emit func(string)) {
	if len(a.parts) == 0 {
		return
	}
	emit(strings.Join(a.parts, " "))
	a.parts = a.parts[:0]
	a.tokens = 0
}
