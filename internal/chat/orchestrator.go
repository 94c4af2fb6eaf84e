package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const (
	historyKey  = "history"
	questionKey = "question"

	DefaultTimeout = 30 * time.Second
)

// Replayer rebuilds the prior turns of a session. history.Adapter satisfies it.
type Replayer interface {
	Replay(ctx context.Context, sessionID string) ([]*schema.Message, error)
}

// Orchestrator sends one request per user turn: the system instruction, the
// replayed history and the new question.
type Orchestrator struct {
	provider string
	history  Replayer
	runnable compose.Runnable[map[string]any, string]
	timeout  time.Duration
	opts     []compose.Option
}

var _ Responder = (*Orchestrator)(nil)

type OrchestratorConfig struct {
	// Provider only labels errors and logs.
	Provider    string
	Instruction string
	Timeout     time.Duration
	// Debug logs every chain node through LoggerCallback.
	Debug bool
}

func NewOrchestrator(ctx context.Context, chatModel model.BaseChatModel, history Replayer, cfg OrchestratorConfig) (*Orchestrator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if history == nil {
		return nil, errors.New("history replayer is required")
	}
	if strings.TrimSpace(cfg.Instruction) == "" {
		return nil, errors.New("system instruction is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// 与 ChatPromptTemplate 对应: system + history placeholder + human question
	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage(escapeFString(cfg.Instruction)),
		schema.MessagesPlaceholder(historyKey, true),
		schema.UserMessage("{"+questionKey+"}"),
	)

	chain := compose.NewChain[map[string]any, string]()
	chain.
		AppendChatTemplate(tpl).
		AppendChatModel(chatModel).
		AppendLambda(compose.InvokableLambda(parseReply))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile conversation chain: %w", err)
	}

	o := &Orchestrator{
		provider: cfg.Provider,
		history:  history,
		runnable: runnable,
		timeout:  cfg.Timeout,
	}
	if cfg.Debug {
		o.opts = append(o.opts, compose.WithCallbacks(&LoggerCallback{Provider: cfg.Provider}))
	}
	return o, nil
}

// Respond replays the session and asks the model for a reply to userText.
// Nothing is persisted here.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, userText string) (string, error) {
	prior, err := o.Replay(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return o.Complete(ctx, prior, userText)
}

// Replay returns the prior turns of sessionID as prompt messages.
func (o *Orchestrator) Replay(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	return o.history.Replay(ctx, sessionID)
}

// Complete sends one request with the given history and returns the reply text unmodified.
func (o *Orchestrator) Complete(ctx context.Context, prior []*schema.Message, userText string) (string, error) {
	if prior == nil {
		prior = []*schema.Message{}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	reply, err := o.runnable.Invoke(callCtx, map[string]any{
		historyKey:  prior,
		questionKey: userText,
	}, o.opts...)
	if err != nil {
		if callErr := callCtx.Err(); callErr != nil && !errors.Is(err, callErr) {
			err = fmt.Errorf("%w: %v", callErr, err)
		}
		log.Printf("[Orchestrator.Complete] provider=%s history=%d err=%v", o.provider, len(prior), err)
		return "", &UpstreamError{Provider: o.provider, Err: err}
	}
	log.Printf("[Orchestrator.Complete] provider=%s history=%d reply_len=%d took=%s", o.provider, len(prior), len(reply), time.Since(start))
	return reply, nil
}

func parseReply(_ context.Context, msg *schema.Message) (string, error) {
	if msg == nil {
		return "", errors.New("model returned no message")
	}
	return msg.Content, nil
}

// The instruction goes through FString formatting; literal braces must be doubled.
func escapeFString(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}
