// Package tiktoken provides a TokenCounter backed by the tiktoken BPE
// encodings used by OpenAI embedding models.
package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding matches text-embedding-3-small.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens using a tiktoken encoding.
type Counter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewCounter loads the named encoding, defaulting to cl100k_base.
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &Counter{encoding: encoding, enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Name returns the encoding name.
func (c *Counter) Name() string {
	return c.encoding
}
