package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/dyike/mentorchat/internal/chat"
	"github.com/dyike/mentorchat/internal/session"
	"github.com/dyike/mentorchat/models"
)

// InteractiveSession is a terminal chat bound to one session.Manager
type InteractiveSession struct {
	service *chat.Service
	mgr     *session.Manager
	out     io.Writer
	ask     func() (string, error)
}

func NewInteractiveSession(service *chat.Service, mgr *session.Manager, out io.Writer) *InteractiveSession {
	return &InteractiveSession{
		service: service,
		mgr:     mgr,
		out:     out,
		ask:     PromptForQuestion,
	}
}

// Start shows the stored transcript and runs the chat loop until /exit or Ctrl-C
func (s *InteractiveSession) Start(ctx context.Context) error {
	DisplayWelcomeBanner(s.out, s.mgr.Current())

	turns, err := s.service.Transcript(ctx, s.mgr)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}
	if len(turns) > 0 {
		DisplayTranscript(s.out, turns)
		fmt.Fprintln(s.out)
	}

	return s.runMainLoop(ctx)
}

func (s *InteractiveSession) runMainLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := s.ask()
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "👋 Bye!")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		switch strings.ToLower(input) {
		case "":
			continue
		case "/exit", "/quit":
			fmt.Fprintln(s.out, "👋 Bye!")
			return nil
		case "/new":
			id := s.mgr.Reset()
			fmt.Fprintln(s.out, dimStyle.Render("🆕 new chat "+id))
			continue
		}

		reply, err := s.service.Submit(ctx, s.mgr, input)
		if err != nil {
			DisplayError(s.out, err)
			continue
		}
		fmt.Fprintln(s.out, renderTurn(models.Turn{Sender: models.SenderAssistant, Text: reply}))
		fmt.Fprintln(s.out)
	}
}
