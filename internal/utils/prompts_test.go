package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSystemPromptEmbedded(t *testing.T) {
	text, err := LoadSystemPrompt("")
	if err != nil {
		t.Fatalf("LoadSystemPrompt: %v", err)
	}
	if !strings.Contains(text, "Data Science") {
		t.Fatalf("unexpected embedded prompt: %q", text)
	}
}

func TestLoadSystemPromptOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.md")
	if err := os.WriteFile(path, []byte("  Only talk about statistics.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	text, err := LoadSystemPrompt(path)
	if err != nil {
		t.Fatalf("LoadSystemPrompt: %v", err)
	}
	if text != "Only talk about statistics." {
		t.Fatalf("unexpected prompt %q", text)
	}

	empty := filepath.Join(t.TempDir(), "empty.md")
	if err := os.WriteFile(empty, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSystemPrompt(empty); err == nil {
		t.Fatal("expected error for empty prompt file")
	}
}

func TestLoadPromptMissing(t *testing.T) {
	if _, err := LoadPrompt("nope/missing"); err == nil {
		t.Fatal("expected error for missing prompt")
	}
}
