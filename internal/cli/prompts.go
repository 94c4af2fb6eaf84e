package cli

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForQuestion asks for the next chat message
func PromptForQuestion() (string, error) {
	var question string
	prompt := &survey.Input{
		Message: "Ask your question here:",
		Help:    "Type /new to start a new chat or /exit to quit",
	}

	err := survey.AskOne(prompt, &question)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(question), nil
}
