package chat

import (
	"context"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/mentorchat/internal/session"
	"github.com/dyike/mentorchat/internal/storage"
	"github.com/dyike/mentorchat/models"
)

// Responder replays a session and completes one turn. *Orchestrator satisfies it.
type Responder interface {
	Replay(ctx context.Context, sessionID string) ([]*schema.Message, error)
	Complete(ctx context.Context, prior []*schema.Message, userText string) (string, error)
}

// Service runs one user turn end to end: persist the question, ask the model,
// persist the reply, update the transcript.
type Service struct {
	store     storage.MessageStore
	responder Responder
}

func NewService(store storage.MessageStore, responder Responder) *Service {
	return &Service{store: store, responder: responder}
}

// Submit handles one question from the client owning mgr. The question is
// stored before the model is called, so a failed or abandoned call leaves it
// in the log for a retry. A failing store aborts the turn.
func (s *Service) Submit(ctx context.Context, mgr *session.Manager, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	mgr.LockTurn()
	defer mgr.UnlockTurn()

	sessionID := mgr.Current()
	// keep the cache in step with the rows written below
	if _, err := mgr.Transcript(ctx, s.store); err != nil {
		return "", err
	}

	prior, err := s.responder.Replay(ctx, sessionID)
	if err != nil {
		log.Printf("[Service.Submit] session=%s history replay failed: %v", sessionID, err)
		return "", err
	}

	// rows are written even if the caller goes away mid-turn
	writeCtx := context.WithoutCancel(ctx)

	userTurn := models.Turn{Sender: models.SenderUser, Text: question}
	if err := s.store.Append(writeCtx, sessionID, userTurn.Sender, userTurn.Text); err != nil {
		return "", err
	}
	mgr.Record(sessionID, userTurn)

	reply, err := s.responder.Complete(ctx, prior, question)
	if err != nil {
		log.Printf("[Service.Submit] session=%s reply failed: %v", sessionID, err)
		return "", err
	}

	replyTurn := models.Turn{Sender: models.SenderAssistant, Text: reply}
	if err := s.store.Append(writeCtx, sessionID, replyTurn.Sender, replyTurn.Text); err != nil {
		return "", err
	}
	mgr.Record(sessionID, replyTurn)
	return reply, nil
}

// Transcript returns what the client owning mgr should see.
func (s *Service) Transcript(ctx context.Context, mgr *session.Manager) ([]models.Turn, error) {
	return mgr.Transcript(ctx, s.store)
}
