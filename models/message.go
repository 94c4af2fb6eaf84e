package models

import (
	"fmt"
	"time"
)

// Sender identifies who wrote a turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ParseSender maps the stored sender column back to a Sender.
func ParseSender(s string) (Sender, error) {
	switch Sender(s) {
	case SenderUser, SenderAssistant:
		return Sender(s), nil
	}
	return "", fmt.Errorf("unknown sender %q", s)
}

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// MessageRecord is one persisted row of the messages table.
type MessageRecord struct {
	ID        int64
	SessionID string
	Sender    Sender
	Text      string
	CreatedAt time.Time
}

// Turn is one entry of a transcript, in the order it was written.
type Turn struct {
	Sender Sender `json:"sender" yaml:"sender"`
	Text   string `json:"text" yaml:"text"`
}
