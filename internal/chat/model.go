package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dyike/mentorchat/config"
)

// NewChatModel builds the chat model for cfg.LLMProvider. A missing credential
// is reported as *AuthError so the process can refuse to start.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey())
	if apiKey == "" {
		return nil, &AuthError{Provider: cfg.LLMProvider, Err: errors.New("api key is not set")}
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		maxTokens := cfg.MaxTokens
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    apiKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		log.Printf("[NewChatModel] provider=openai model=%s base_url=%q", cfg.LLMModel, cfg.BackendURL)
		return chatModel, nil
	case config.ProviderDeepSeek:
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    apiKey,
			Model:     cfg.LLMModel,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model: %w", err)
		}
		log.Printf("[NewChatModel] provider=deepseek model=%s", cfg.LLMModel)
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}
