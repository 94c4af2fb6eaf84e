package chat

import (
	"context"
	"log"
	"time"

	"github.com/cloudwego/eino/callbacks"
	ecmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type startKey struct{}

// LoggerCallback logs every node of the conversation chain. It is attached
// when debug logging is on.
type LoggerCallback struct {
	Provider string
}

func (cb *LoggerCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if in := ecmodel.ConvCallbackInput(input); in != nil {
		log.Printf("[LoggerCallback.OnStart] provider=%s node=%s messages=%d", cb.Provider, nodeName(info), len(in.Messages))
	}
	return context.WithValue(ctx, startKey{}, time.Now())
}

func (cb *LoggerCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	out := ecmodel.ConvCallbackOutput(output)
	if out == nil {
		return ctx
	}
	took := time.Duration(0)
	if start, ok := ctx.Value(startKey{}).(time.Time); ok {
		took = time.Since(start)
	}
	if out.TokenUsage != nil {
		log.Printf("[LoggerCallback.OnEnd] provider=%s node=%s took=%s prompt_tokens=%d completion_tokens=%d",
			cb.Provider, nodeName(info), took, out.TokenUsage.PromptTokens, out.TokenUsage.CompletionTokens)
		return ctx
	}
	log.Printf("[LoggerCallback.OnEnd] provider=%s node=%s took=%s", cb.Provider, nodeName(info), took)
	return ctx
}

func (cb *LoggerCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	log.Printf("[LoggerCallback.OnError] provider=%s node=%s err=%v", cb.Provider, nodeName(info), err)
	return ctx
}

func (cb *LoggerCallback) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return ctx
}

func (cb *LoggerCallback) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	return ctx
}

func nodeName(info *callbacks.RunInfo) string {
	if info == nil {
		return ""
	}
	if info.Name != "" {
		return info.Name
	}
	return string(info.Component)
}
