package driven

import "context"

// LLMService produces a chat completion for answer synthesis. This is a
// thin consumer of retrieval: the service receives an assembled prompt and
// returns the model's answer. Optional; without it, only raw retrieval is
// available.
type LLMService interface {
	// Chat sends a system and user message and returns the completion text.
	Chat(ctx context.Context, system, user string) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string
}
