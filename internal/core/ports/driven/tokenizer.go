package driven

// TokenCounter reports how many model tokens a text encodes to.
// Deterministic for a fixed model; pure, no state between calls.
//
// Implementations may include:
//   - tiktoken BPE encodings (cl100k_base for text-embedding-3-small)
//   - a character-ratio heuristic for offline use
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Name identifies the counter, recorded alongside segmented passages.
	Name() string
}
