package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driven"
	"github.com/arcanum-labs/bookrag/internal/core/ports/driving"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

const answerSystemPrompt = "You answer questions about a book using only the " +
	"provided passages. If the passages do not contain the answer, say so " +
	"instead of guessing."

// AnswerService synthesises an answer from retrieved passages. It is a thin
// layer over retrieval: context assembly is plain concatenation, with no
// re-ranking or citation tracking.
type AnswerService struct {
	retriever driving.Retriever
	llm       driven.LLMService
	topK      int
}

// NewAnswerService creates an answer service. A topK of zero or less falls
// back to DefaultTopK.
func NewAnswerService(retriever driving.Retriever, llm driven.LLMService, topK int) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerService{retriever: retriever, llm: llm, topK: topK}
}

// Answer retrieves context for the question and asks the chat model. The
// matches used as context are returned alongside the answer so callers can
// show provenance.
func (s *AnswerService) Answer(ctx context.Context, question, title string) (string, []domain.Match, error) {
	matches, err := s.retriever.Retrieve(ctx, question, title, s.topK)
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("no passages found for %q; upload the book first", title)
	}

	answer, err := s.llm.Chat(ctx, answerSystemPrompt, buildPrompt(question, matches))
	if err != nil {
		return "", matches, fmt.Errorf("chat completion: %w", err)
	}
	return answer, matches, nil
}

// buildPrompt assembles the user message: the passage texts joined by blank
// lines, then the question.
func buildPrompt(question string, matches []domain.Match) string {
	var b strings.Builder
	b.WriteString("Passages:\n\n")
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Content)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
