package providers

import (
	"context"
	"errors"
	"fmt"
	"journald/internal/structures"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrEmptyCompletion = errors.New("model returned no content")

type LLMProviderInterface interface {
	Summarize(ctx context.Context, system, prompt string) (string, error)
}

type LLMProvider struct {
	model       llms.Model
	maxTokens   int
	temperature float64
}

func NewLLMProvider(conf *structures.Config) (LLMProviderInterface, error) {
	opts := []openai.Option{
		openai.WithToken(conf.OpenAI.APIKey),
		openai.WithModel(conf.OpenAI.Model),
	}
	if conf.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(conf.OpenAI.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return newLLMProvider(llm, conf.OpenAI.MaxTokens, conf.OpenAI.Temperature), nil
}

func newLLMProvider(model llms.Model, maxTokens int, temperature float64) *LLMProvider {
	return &LLMProvider{
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (p *LLMProvider) Summarize(ctx context.Context, system, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := p.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(p.maxTokens),
		llms.WithTemperature(p.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
