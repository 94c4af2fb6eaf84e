package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/mentorchat/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D1FF")).
			Padding(0, 1).
			MarginBottom(1)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#10B981"))

	replyStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// DisplayWelcomeBanner shows the title and the available chat commands
func DisplayWelcomeBanner(w io.Writer, sessionID string) {
	fmt.Fprintln(w, titleStyle.Render("AI Data Science Mentor 🚀"))
	fmt.Fprintln(w, dimStyle.Render("session "+sessionID))
	fmt.Fprintln(w, dimStyle.Render("/new starts a new chat, /exit quits"))
	fmt.Fprintln(w)
}

func renderTurn(turn models.Turn) string {
	switch turn.Sender {
	case models.SenderAssistant:
		return assistantLabelStyle.Render("assistant") + "\n" + replyStyle.Render(turn.Text)
	default:
		return userLabelStyle.Render("user") + "  " + turn.Text
	}
}

// DisplayTranscript prints every turn in stored order
func DisplayTranscript(w io.Writer, turns []models.Turn) {
	if len(turns) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No messages yet..."))
		return
	}
	for _, turn := range turns {
		fmt.Fprintln(w, renderTurn(turn))
	}
}

func DisplayError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("❌ "+err.Error()))
}

// DisplaySessions prints one line per stored session, newest first
func DisplaySessions(w io.Writer, sessions []models.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No sessions stored yet."))
		return
	}
	fmt.Fprintf(w, "%-36s  %8s  %-19s  %-19s\n", "SESSION", "MESSAGES", "FIRST", "LAST")
	fmt.Fprintln(w, strings.Repeat("─", 88))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-36s  %8d  %-19s  %-19s\n",
			s.ID,
			s.Messages,
			s.FirstAt.Format("2006-01-02 15:04:05"),
			s.LastAt.Format("2006-01-02 15:04:05"),
		)
	}
}
