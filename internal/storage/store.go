package storage

import (
	"context"
	"fmt"

	"github.com/dyike/mentorchat/models"
)

// MessageStore is the append-only log of chat turns keyed by session id.
type MessageStore interface {
	// Init creates the schema when it is missing. Safe to call on every start.
	Init(ctx context.Context) error
	Append(ctx context.Context, sessionID string, sender models.Sender, text string) error
	// Load returns the session's turns in insertion order, or an empty slice.
	Load(ctx context.Context, sessionID string) ([]models.Turn, error)
	ListSessions(ctx context.Context, limit int) ([]models.SessionSummary, error)
	Close() error
}

// StorageError reports a failed read or write against the message store.
type StorageError struct {
	Op        string // "init", "append", "load", "list"
	SessionID string
	Err       error
}

func (e *StorageError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage error: %s session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
