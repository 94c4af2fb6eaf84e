// Package session owns the per-client conversation state: which session id the
// client is writing to and the transcript shown to it.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dyike/mentorchat/models"
)

// Loader reads a stored transcript. storage.MessageStore satisfies it.
type Loader interface {
	Load(ctx context.Context, sessionID string) ([]models.Turn, error)
}

// Manager holds the state of one client. Turn submission takes the turn lock
// so a second message waits until the pending one has been answered.
type Manager struct {
	turn sync.Mutex

	mu         sync.Mutex
	id         string
	transcript []models.Turn
	loaded     bool
	newID      func() string
}

func NewManager() *Manager {
	return &Manager{newID: uuid.NewString}
}

// Current returns the session id, minting one on first use.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == "" {
		m.id = m.newID()
	}
	return m.id
}

// Reset starts a new conversation. Rows stored under the old id stay in the store.
func (m *Manager) Reset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = m.newID()
	m.transcript = nil
	m.loaded = false
	return m.id
}

// Resume switches the client to an existing session id and drops the cached transcript.
func (m *Manager) Resume(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	m.transcript = nil
	m.loaded = false
}

// Transcript returns a copy of the cached transcript, loading it from the store
// the first time it is needed for the current id.
func (m *Manager) Transcript(ctx context.Context, loader Loader) ([]models.Turn, error) {
	id := m.Current()

	m.mu.Lock()
	if m.loaded && m.id == id {
		out := append([]models.Turn(nil), m.transcript...)
		m.mu.Unlock()
		return out, nil
	}
	m.mu.Unlock()

	turns, err := loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id != id {
		// reset while loading; the new session starts empty
		return []models.Turn{}, nil
	}
	m.transcript = turns
	m.loaded = true
	return append([]models.Turn(nil), turns...), nil
}

// Record appends turns to the cached transcript of sessionID. Turns for a
// session the client has already moved away from are ignored.
func (m *Manager) Record(sessionID string, turns ...models.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id != sessionID || !m.loaded {
		return
	}
	m.transcript = append(m.transcript, turns...)
}

// LockTurn serialises submissions of this client.
func (m *Manager) LockTurn()   { m.turn.Lock() }
func (m *Manager) UnlockTurn() { m.turn.Unlock() }
