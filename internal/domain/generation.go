package domain

import "context"

// Completer is the text-generation contract. One prompt in, one raw string out.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (CompletionResult, error)
}

// CompletionResult carries generated text and token usage.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
