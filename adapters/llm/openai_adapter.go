package llm

import (
	"context"
	"fmt"

	"github.com/khoahotran/career-planner/internal/application/service"
	"github.com/khoahotran/career-planner/internal/config"
	"github.com/khoahotran/career-planner/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

type openaiLLMAdapter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	log         logger.Logger
}

func NewOpenAILLMAdapter(cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}

	client := openai.NewClient(cfg.OpenAI.APIKey)

	log.Info("OpenAI (LLM) Adapter initialized")
	return &openaiLLMAdapter{
		client:      client,
		model:       cfg.OpenAI.Model,
		maxTokens:   cfg.OpenAI.MaxTokens,
		temperature: cfg.OpenAI.Temperature,
		log:         log,
	}, nil
}

func (a *openaiLLMAdapter) GeneratePlanResponse(ctx context.Context, prompt string) (string, service.CompletionUsage, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a career coach who responds only with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", service.CompletionUsage{}, fmt.Errorf("openai chat completion request failed: %w", err)
	}

	usage := service.CompletionUsage{
		PromptTokens: resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if len(resp.Choices) == 0 {
		return "", usage, fmt.Errorf("openai returned no chat choices")
	}

	return resp.Choices[0].Message.Content, usage, nil
}

func (a *openaiLLMAdapter) Model() string {
	return a.model
}
