package scorer

import "context"

// LLMProvider sends a prompt to a language model and returns the raw text response.
// The response is untrusted; internal/analysis parses and repairs it.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
