package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReplayer struct {
	msgs []*schema.Message
	err  error
}

func (s staticReplayer) Replay(context.Context, string) ([]*schema.Message, error) {
	return s.msgs, s.err
}

const testInstruction = "You are an AI expert specializing in Data Science."

func newTestOrchestrator(t *testing.T, m *fakeModel, r Replayer, timeout time.Duration) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(context.Background(), m, r, OrchestratorConfig{
		Provider:    "fake",
		Instruction: testInstruction,
		Timeout:     timeout,
	})
	require.NoError(t, err)
	return o
}

func TestOrchestrator_RespondSendsSystemHistoryAndQuestion(t *testing.T) {
	m := &fakeModel{reply: "A confidence interval is..."}
	o := newTestOrchestrator(t, m, staticReplayer{msgs: []*schema.Message{
		schema.UserMessage("what is a p-value?"),
		schema.AssistantMessage("...", nil),
	}}, time.Second)

	reply, err := o.Respond(context.Background(), "A", "and a confidence interval?")
	require.NoError(t, err)
	assert.Equal(t, "A confidence interval is...", reply)

	sent := m.lastInput()
	require.Len(t, sent, 4)
	assert.Equal(t, schema.System, sent[0].Role)
	assert.Equal(t, testInstruction, sent[0].Content)
	assert.Equal(t, schema.User, sent[1].Role)
	assert.Equal(t, "what is a p-value?", sent[1].Content)
	assert.Equal(t, schema.Assistant, sent[2].Role)
	assert.Equal(t, schema.User, sent[3].Role)
	assert.Equal(t, "and a confidence interval?", sent[3].Content)
}

func TestOrchestrator_ReplyIsReturnedUnmodified(t *testing.T) {
	raw := "  **bold** {not a placeholder}\n"
	m := &fakeModel{reply: raw}
	o := newTestOrchestrator(t, m, staticReplayer{}, time.Second)

	reply, err := o.Respond(context.Background(), "A", "use {braces} freely")
	require.NoError(t, err)
	assert.Equal(t, raw, reply)
	assert.Equal(t, "use {braces} freely", m.lastInput()[1].Content)
}

func TestOrchestrator_InstructionWithBraces(t *testing.T) {
	m := &fakeModel{reply: "ok"}
	o, err := NewOrchestrator(context.Background(), m, staticReplayer{}, OrchestratorConfig{
		Instruction: "Answer in JSON like {\"answer\": ...}",
	})
	require.NoError(t, err)

	_, err = o.Respond(context.Background(), "A", "q")
	require.NoError(t, err)
	assert.Equal(t, "Answer in JSON like {\"answer\": ...}", m.lastInput()[0].Content)
}

func TestOrchestrator_UpstreamFailure(t *testing.T) {
	m := &fakeModel{err: errors.New("503 service unavailable")}
	o := newTestOrchestrator(t, m, staticReplayer{}, time.Second)

	_, err := o.Respond(context.Background(), "A", "q")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.Timeout())
	assert.Contains(t, err.Error(), "503")
}

func TestOrchestrator_Timeout(t *testing.T) {
	m := &fakeModel{block: true}
	o := newTestOrchestrator(t, m, staticReplayer{}, 20*time.Millisecond)

	start := time.Now()
	_, err := o.Respond(context.Background(), "A", "q")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.Timeout())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestOrchestrator_ReplayErrorIsNotUpstream(t *testing.T) {
	boom := errors.New("store down")
	m := &fakeModel{reply: "x"}
	o := newTestOrchestrator(t, m, staticReplayer{err: boom}, time.Second)

	_, err := o.Respond(context.Background(), "A", "q")
	assert.ErrorIs(t, err, boom)
	var ue *UpstreamError
	assert.False(t, errors.As(err, &ue))
	assert.Zero(t, m.calls())
}

func TestNewOrchestratorValidates(t *testing.T) {
	ctx := context.Background()
	_, err := NewOrchestrator(ctx, nil, staticReplayer{}, OrchestratorConfig{Instruction: "x"})
	assert.Error(t, err)
	_, err = NewOrchestrator(ctx, &fakeModel{}, nil, OrchestratorConfig{Instruction: "x"})
	assert.Error(t, err)
	_, err = NewOrchestrator(ctx, &fakeModel{}, staticReplayer{}, OrchestratorConfig{})
	assert.Error(t, err)
}

func TestOrchestrator_DebugCallbacksDoNotChangeReply(t *testing.T) {
	m := &fakeModel{reply: "traced"}
	o, err := NewOrchestrator(context.Background(), m, staticReplayer{}, OrchestratorConfig{
		Provider:    "fake",
		Instruction: testInstruction,
		Timeout:     time.Second,
		Debug:       true,
	})
	require.NoError(t, err)

	reply, err := o.Respond(context.Background(), "S", "hello")
	require.NoError(t, err)
	assert.Equal(t, "traced", reply)
}

func TestLoggerCallbackHandlesModelPayloads(t *testing.T) {
	cb := &LoggerCallback{Provider: "fake"}
	ctx := cb.OnStart(context.Background(), nil, []*schema.Message{schema.UserMessage("hi")})
	ctx = cb.OnEnd(ctx, nil, schema.AssistantMessage("ok", nil))
	assert.NotNil(t, cb.OnError(ctx, nil, errors.New("boom")))
}
