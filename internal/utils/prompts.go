package utils

import (
	"embed"
	"fmt"
	"os"
	"strings"
)

//go:embed prompts
var promptFiles embed.FS

// LoadPrompt loads a prompt from the embedded markdown files
func LoadPrompt(path string) (string, error) {
	content, err := promptFiles.ReadFile(fmt.Sprintf("prompts/%s.md", path))
	if err != nil {
		return "", fmt.Errorf("failed to load prompt %s: %w", path, err)
	}
	return strings.TrimSpace(string(content)), nil
}

// LoadSystemPrompt returns the mentor instruction, read from overridePath when set.
func LoadSystemPrompt(overridePath string) (string, error) {
	if strings.TrimSpace(overridePath) == "" {
		return LoadPrompt("mentor/system")
	}
	content, err := os.ReadFile(overridePath)
	if err != nil {
		return "", fmt.Errorf("read system prompt %s: %w", overridePath, err)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", fmt.Errorf("system prompt %s is empty", overridePath)
	}
	return text, nil
}
