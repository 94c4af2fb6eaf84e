package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/mentorchat/config"
)

func TestUpstreamErrorTimeout(t *testing.T) {
	err := &UpstreamError{Provider: "openai", Err: fmt.Errorf("invoke: %w", context.DeadlineExceeded)}
	assert.True(t, err.Timeout())
	assert.Contains(t, err.Error(), "timed out")

	plain := &UpstreamError{Provider: "openai", Err: errors.New("status 500")}
	assert.False(t, plain.Timeout())
	assert.Equal(t, "upstream error [openai]: status 500", plain.Error())
}

func TestNewChatModelMissingKeyIsAuthError(t *testing.T) {
	cfg := &config.Config{LLMProvider: config.ProviderOpenAI, LLMModel: "gpt-4o-mini"}

	_, err := NewChatModel(context.Background(), cfg)
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, config.ProviderOpenAI, ae.Provider)
}

func TestNewChatModelProviders(t *testing.T) {
	ctx := context.Background()

	m, err := NewChatModel(ctx, &config.Config{LLMProvider: config.ProviderOpenAI, LLMModel: "gpt-4o-mini", OpenAIAPIKey: "sk-test", MaxTokens: 256})
	require.NoError(t, err)
	assert.NotNil(t, m)

	m, err = NewChatModel(ctx, &config.Config{LLMProvider: config.ProviderDeepSeek, LLMModel: "deepseek-chat", DeepSeekAPIKey: "ds-test", MaxTokens: 256})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = NewChatModel(ctx, &config.Config{LLMProvider: "gemini", LLMAPIKey: "x"})
	assert.Error(t, err)
}
