package driven

import "context"

// Extractor pulls raw text out of a source document. The pipeline treats
// the result as opaque upstream input: page limiting happens here, before
// any normalisation or segmentation.
type Extractor interface {
	// Extract returns the raw text of the file at path. A maxPages of zero
	// means no limit; a positive value truncates to the leading pages.
	Extract(ctx context.Context, path string, maxPages int) (string, error)
}
