// Package normaliser canonicalises raw extracted text into a single
// collapsed line. Book PDFs arrive with hard line wraps and end-of-line
// hyphenation; normalisation repairs both before token counting.
package normaliser

import (
	"regexp"
	"strings"
)

var (
	// A hyphen directly before a line break marks a word split by layout.
	// Deleting both rejoins the word.
	lineHyphen = regexp.MustCompile(`-\r?\n`)

	// Remaining line breaks become word separators.
	lineBreaks = regexp.MustCompile(`(?:\r?\n)+`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalise applies, in order: dehyphenation of line-end splits, collapse of
// line breaks to spaces, collapse of whitespace runs to single spaces, and
// trimming. Empty input yields empty output.
func Normalise(raw string) string {
	text := lineHyphen.ReplaceAllString(raw, "")
	text = lineBreaks.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
