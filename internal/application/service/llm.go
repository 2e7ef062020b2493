package service

import (
	"context"
)

// CompletionUsage reports token accounting for one model call.
type CompletionUsage struct {
	PromptTokens int
	OutputTokens int
}

type LLMService interface {
	GeneratePlanResponse(ctx context.Context, prompt string) (string, CompletionUsage, error)
	Model() string
}
