package history

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/mentorchat/internal/session"
	"github.com/dyike/mentorchat/models"
)

// Adapter turns stored turns into the role-tagged messages the prompt template expects.
type Adapter struct {
	loader session.Loader
	// Window keeps only the last Window turns when > 0. Zero replays everything.
	Window int
}

func NewAdapter(loader session.Loader, window int) *Adapter {
	return &Adapter{loader: loader, Window: window}
}

// Replay loads the session and maps user turns to human messages and
// assistant turns to model messages, oldest first.
func (a *Adapter) Replay(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	turns, err := a.loader.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if a.Window > 0 && len(turns) > a.Window {
		turns = turns[len(turns)-a.Window:]
	}
	return ToMessages(turns)
}

// ToMessages converts a transcript to eino messages.
func ToMessages(turns []models.Turn) ([]*schema.Message, error) {
	out := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Sender {
		case models.SenderUser:
			out = append(out, schema.UserMessage(t.Text))
		case models.SenderAssistant:
			out = append(out, schema.AssistantMessage(t.Text, nil))
		default:
			return nil, fmt.Errorf("replay: unknown sender %q", t.Sender)
		}
	}
	return out, nil
}
