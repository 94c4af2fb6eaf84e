package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dyike/mentorchat/internal/storage"
	"github.com/dyike/mentorchat/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    msg_id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    sender TEXT NOT NULL CHECK (sender IN ('user', 'assistant')),
    text_content TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, msg_id);
`

// Store persists chat turns in a sqlite messages table.
type Store struct {
	db *sql.DB
}

var _ storage.MessageStore = (*Store)(nil)

// Open opens (or creates) the database file and initialises the schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, &storage.StorageError{Op: "open", Err: err}
	}
	s := NewStore(db)
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already opened handle. Call Init before use.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		log.Printf("[Store.Init] failed to create messages table: %v", err)
		return &storage.StorageError{Op: "init", Err: err}
	}
	log.Println("[Store.Init] messages table created or already exists")
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	log.Println("[Store.Close] closing db connection")
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, sessionID string, sender models.Sender, text string) error {
	if strings.TrimSpace(sessionID) == "" {
		return &storage.StorageError{Op: "append", Err: errors.New("session id is required")}
	}
	if !sender.Valid() {
		return &storage.StorageError{Op: "append", SessionID: sessionID, Err: fmt.Errorf("unknown sender %q", sender)}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages (session_id, sender, text_content)
VALUES (?, ?, ?)
`, sessionID, string(sender), text)
	if err != nil {
		log.Printf("[Store.Append] session=%s sender=%s err=%v", sessionID, sender, err)
		return &storage.StorageError{Op: "append", SessionID: sessionID, Err: err}
	}
	log.Printf("[Store.Append] session=%s sender=%s len=%d", sessionID, sender, len(text))
	return nil
}

func (s *Store) Load(ctx context.Context, sessionID string) ([]models.Turn, error) {
	records, err := s.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turns := make([]models.Turn, 0, len(records))
	for _, rec := range records {
		turns = append(turns, models.Turn{Sender: rec.Sender, Text: rec.Text})
	}
	return turns, nil
}

// ListMessages returns the full rows of a session ordered by msg_id.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]models.MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT msg_id, session_id, sender, text_content, created_at
FROM messages
WHERE session_id = ?
ORDER BY msg_id ASC
`, sessionID)
	if err != nil {
		log.Printf("[Store.ListMessages] session=%s err=%v", sessionID, err)
		return nil, &storage.StorageError{Op: "load", SessionID: sessionID, Err: err}
	}
	defer rows.Close()

	msgs := make([]models.MessageRecord, 0)
	for rows.Next() {
		var (
			rec    models.MessageRecord
			sender string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &sender, &rec.Text, &rec.CreatedAt); err != nil {
			return nil, &storage.StorageError{Op: "load", SessionID: sessionID, Err: fmt.Errorf("scan message: %w", err)}
		}
		if rec.Sender, err = models.ParseSender(sender); err != nil {
			return nil, &storage.StorageError{Op: "load", SessionID: sessionID, Err: err}
		}
		msgs = append(msgs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "load", SessionID: sessionID, Err: fmt.Errorf("messages rows: %w", err)}
	}
	return msgs, nil
}

// ListSessions 按最近一条消息倒序列出会话
func (s *Store) ListSessions(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at), MAX(msg_id) AS last_id
FROM messages
GROUP BY session_id
ORDER BY last_id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, &storage.StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var sessions []models.SessionSummary
	for rows.Next() {
		var (
			rec           models.SessionSummary
			first, last   string
			lastMessageID int64
		)
		if err := rows.Scan(&rec.ID, &rec.Messages, &first, &last, &lastMessageID); err != nil {
			return nil, &storage.StorageError{Op: "list", Err: fmt.Errorf("scan session: %w", err)}
		}
		rec.FirstAt = parseTimestamp(first)
		rec.LastAt = parseTimestamp(last)
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "list", Err: fmt.Errorf("sessions rows: %w", err)}
	}
	return sessions, nil
}

// MIN/MAX lose the column type, so the driver hands back text.
func parseTimestamp(v string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05-07:00",
		time.RFC3339Nano,
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
