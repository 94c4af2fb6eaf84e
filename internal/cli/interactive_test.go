package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/mentorchat/internal/chat"
	"github.com/dyike/mentorchat/internal/history"
	"github.com/dyike/mentorchat/internal/session"
	"github.com/dyike/mentorchat/internal/storage/sqlite"
	"github.com/dyike/mentorchat/models"
)

type echoModel struct{}

func (echoModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("echo: "+input[len(input)-1].Content, nil), nil
}

func (m echoModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func newTestService(t *testing.T) (*chat.Service, *sqlite.Store) {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "conversation_log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	o, err := chat.NewOrchestrator(ctx, echoModel{}, history.NewAdapter(store, 0), chat.OrchestratorConfig{
		Provider:    "echo",
		Instruction: "Only answer Data Science questions.",
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return chat.NewService(store, o), store
}

// scripted feeds the given lines to the session, then interrupts.
func scripted(lines ...string) func() (string, error) {
	return func() (string, error) {
		if len(lines) == 0 {
			return "", terminal.InterruptErr
		}
		next := lines[0]
		lines = lines[1:]
		return next, nil
	}
}

func TestInteractiveSessionChatsAndResets(t *testing.T) {
	svc, store := newTestService(t)
	mgr := session.NewManager()
	first := mgr.Current()

	var out bytes.Buffer
	s := NewInteractiveSession(svc, mgr, &out)
	s.ask = scripted("what is variance?", "", "/new", "and bias?", "/exit", "never sent")

	require.NoError(t, s.Start(context.Background()))
	assert.Contains(t, out.String(), "echo: what is variance?")
	assert.Contains(t, out.String(), "echo: and bias?")

	ctx := context.Background()
	rows, err := store.Load(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []models.Turn{
		{Sender: models.SenderUser, Text: "what is variance?"},
		{Sender: models.SenderAssistant, Text: "echo: what is variance?"},
	}, rows)

	second := mgr.Current()
	require.NotEqual(t, first, second)
	rows, err = store.Load(ctx, second)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestInteractiveSessionResumeShowsTranscript(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "old", models.SenderUser, "stored question"))
	require.NoError(t, store.Append(ctx, "old", models.SenderAssistant, "stored answer"))

	mgr := session.NewManager()
	mgr.Resume("old")

	var out bytes.Buffer
	s := NewInteractiveSession(svc, mgr, &out)
	s.ask = scripted()

	require.NoError(t, s.Start(ctx))
	assert.Contains(t, out.String(), "stored question")
	assert.Contains(t, out.String(), "stored answer")
	assert.Contains(t, out.String(), "Bye")
}

func TestInteractiveSessionKeepsRunningAfterStorageFailure(t *testing.T) {
	svc, store := newTestService(t)

	var out bytes.Buffer
	s := NewInteractiveSession(svc, session.NewManager(), &out)
	asked := 0
	next := scripted("first question", "second question")
	s.ask = func() (string, error) {
		asked++
		if asked == 1 {
			require.NoError(t, store.Close())
		}
		return next()
	}

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, asked)
	assert.Equal(t, 2, strings.Count(out.String(), "❌"))
	assert.Contains(t, out.String(), "Bye")
}
