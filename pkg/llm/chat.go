package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatConfig represents the configuration for the hosted completion model.
type ChatConfig struct {
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
}

// ChatEngine submits prompts to a hosted completion API. The underlying
// model is an interface so tests can substitute a local double.
type ChatEngine struct {
	config ChatConfig
	model  llms.Model
}

func NewChatEngine(config ChatConfig) (*ChatEngine, error) {
	if config.Model == "" {
		config.Model = "llama3-8b-8192"
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}

	model, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion client: %w", err)
	}

	return &ChatEngine{config: config, model: model}, nil
}

// NewChatEngineWithModel injects a prebuilt model. Used by tests.
func NewChatEngineWithModel(config ChatConfig, model llms.Model) *ChatEngine {
	return &ChatEngine{config: config, model: model}
}

// Complete runs a single system+user exchange and returns the first choice.
func (ce *ChatEngine) Complete(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	response, err := ce.model.GenerateContent(ctx, content,
		llms.WithMaxTokens(ce.config.MaxTokens),
		llms.WithTemperature(ce.config.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return response.Choices[0].Content, nil
}
