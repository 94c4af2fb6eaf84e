package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dyike/mentorchat/config"
	"github.com/dyike/mentorchat/internal/chat"
	"github.com/dyike/mentorchat/internal/history"
	"github.com/dyike/mentorchat/internal/storage/sqlite"
	"github.com/dyike/mentorchat/internal/utils"
)

// runtime is everything one process needs to hold a conversation.
type runtime struct {
	store   *sqlite.Store
	service *chat.Service
}

func (r *runtime) Close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			log.Printf("[runtime.Close] close store: %v", err)
		}
	}
}

// openStore opens the message store at cfg.DBPath and creates the schema.
func openStore(ctx context.Context, cfg *config.Config) (*sqlite.Store, error) {
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %w", err)
	}
	return store, nil
}

// newRuntime builds store, model and orchestrator. A missing credential fails here.
func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	instruction, err := utils.LoadSystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		return nil, err
	}

	chatModel, err := chat.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	orchestrator, err := chat.NewOrchestrator(ctx, chatModel, history.NewAdapter(store, cfg.HistoryWindow), chat.OrchestratorConfig{
		Provider:    cfg.LLMProvider,
		Instruction: instruction,
		Timeout:     cfg.RequestTimeout,
		Debug:       cfg.Debug,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &runtime{
		store:   store,
		service: chat.NewService(store, orchestrator),
	}, nil
}
