package segmenter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// wordCounter counts whitespace-separated words, giving tests exact control
// over token budgets.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }
func (wordCounter) Name() string          { return "words" }

func newSegmenter(t *testing.T, maxTokens int) *Segmenter {
	t.Helper()
	s, err := New(wordCounter{}, maxTokens)
	require.NoError(t, err)
	return s
}

func TestNewRejectsNonPositiveBudget(t *testing.T) {
	_, err := New(wordCounter{}, 0)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = New(wordCounter{}, -5)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewRejectsNilCounter(t *testing.T) {
	_, err := New(nil, 100)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSegmentSingleSmallDocument(t *testing.T) {
	// Two paragraphs well under the budget merge into one passage.
	s := newSegmenter(t, 1000)

	passages := s.Segment("Para one. Para one still.\n\nPara two.", "Book")

	require.Len(t, passages, 1)
	assert.Equal(t, "Para one. Para one still. Para two.", passages[0].Content)
	assert.Equal(t, "Book", passages[0].DocumentID)
	assert.Equal(t, 0, passages[0].SequenceIndex)
}

func TestSegmentParagraphsThatCannotShareAPassage(t *testing.T) {
	// Each paragraph is 4 words, budget is 6: individually under, combined
	// over. One passage per paragraph.
	s := newSegmenter(t, 6)

	passages := s.Segment("one two three four\n\nfive six seven eight", "Book")

	require.Len(t, passages, 2)
	assert.Equal(t, "one two three four", passages[0].Content)
	assert.Equal(t, "five six seven eight", passages[1].Content)
	assert.Equal(t, 0, passages[0].SequenceIndex)
	assert.Equal(t, 1, passages[1].SequenceIndex)
}

func TestSegmentOversizedParagraphFallsBackToSentences(t *testing.T) {
	// One paragraph of 3 sentences, 4 words each. Budget 8: the paragraph
	// (12 words) exceeds it, each sentence fits, all three together do not.
	s := newSegmenter(t, 8)
	para := "Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda mu."

	passages := s.Segment(para, "Book")

	require.GreaterOrEqual(t, len(passages), 2)
	for _, p := range passages {
		assert.LessOrEqual(t, wordCounter{}.Count(p.Content), 8)
	}

	var joined []string
	for _, p := range passages {
		joined = append(joined, p.Content)
	}
	assert.Equal(t, para, strings.Join(joined, " "))
}

func TestSegmentOversizedParagraphDoesNotSeedNextAccumulator(t *testing.T) {
	// After sentence-splitting an oversized paragraph, the following
	// paragraph starts a fresh passage rather than inheriting a remainder.
	s := newSegmenter(t, 4)
	raw := "One two three. Four five six.\n\nSeven eight."

	passages := s.Segment(raw, "Book")

	require.Len(t, passages, 3)
	assert.Equal(t, "One two three.", passages[0].Content)
	assert.Equal(t, "Four five six.", passages[1].Content)
	assert.Equal(t, "Seven eight.", passages[2].Content)
}

func TestSegmentParagraphExactlyAtBudgetIsNotSplit(t *testing.T) {
	// The budget check is inclusive: a paragraph of exactly maxTokens fits.
	s := newSegmenter(t, 4)

	passages := s.Segment("one two three four", "Book")

	require.Len(t, passages, 1)
	assert.Equal(t, "one two three four", passages[0].Content)
}

func TestSegmentSingleOversizedSentenceBecomesItsOwnPassage(t *testing.T) {
	// A sentence above the budget cannot be split further; it is emitted
	// alone, exceeding the bound. This is the only tolerated overflow.
	s := newSegmenter(t, 2)
	raw := "one two three four five. six seven."

	passages := s.Segment(raw, "Book")

	require.Len(t, passages, 2)
	assert.Equal(t, "one two three four five.", passages[0].Content)
	assert.Equal(t, "six seven.", passages[1].Content)
}

func TestSegmentEmptyDocument(t *testing.T) {
	s := newSegmenter(t, 100)

	assert.Empty(t, s.Segment("", "Book"))
	assert.Empty(t, s.Segment("\n\n  \n\n", "Book"))
}

func TestSegmentNormalisesParagraphs(t *testing.T) {
	s := newSegmenter(t, 100)

	passages := s.Segment("bro-\nken line\nwrap\n\nsecond  para", "Book")

	require.Len(t, passages, 1)
	assert.Equal(t, "broken line wrap second para", passages[0].Content)
}

func TestSegmentSequenceIndexesAreDense(t *testing.T) {
	s := newSegmenter(t, 5)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "word%d word%d word%d word%d\n\n", i, i, i, i)
	}
	passages := s.Segment(sb.String(), "Book")

	require.NotEmpty(t, passages)
	for i, p := range passages {
		assert.Equal(t, i, p.SequenceIndex)
	}
}

func TestSegmentCoverage(t *testing.T) {
	// Joining all passages with single spaces reconstructs every
	// non-discarded paragraph of the normalised input, in order.
	s := newSegmenter(t, 6)
	raw := "First paragraph here.\n\n\nSecond one follows. It has two sentences and is rather long indeed.\n\nThird."

	passages := s.Segment(raw, "Book")

	var joined []string
	for _, p := range passages {
		joined = append(joined, p.Content)
	}
	want := "First paragraph here. Second one follows. It has two sentences and is rather long indeed. Third."
	assert.Equal(t, want, strings.Join(joined, " "))
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "period question exclamation",
			in:   "One. Two? Three! Four",
			want: []string{"One.", "Two?", "Three!", "Four"},
		},
		{
			name: "punctuation without trailing space does not split",
			in:   "pi is 3.14 roughly. Yes.",
			want: []string{"pi is 3.14 roughly.", "Yes."},
		},
		{
			name: "single sentence",
			in:   "No boundary here",
			want: []string{"No boundary here"},
		},
		{
			name: "trailing punctuation keeps final sentence intact",
			in:   "Done.",
			want: []string{"Done."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.in))
		})
	}
}
