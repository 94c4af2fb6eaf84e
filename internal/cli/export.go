package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dyike/mentorchat/models"
)

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// extensions maps an export format to the file extension used by --out.
var extensions = map[string]string{
	"":             "txt",
	FormatText:     "txt",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
	FormatMarkdown: "md",
}

// WriteHistory writes a stored transcript in the requested format
func WriteHistory(w io.Writer, format string, result models.HistoryResult) error {
	if result.Messages == nil {
		result.Messages = []models.Turn{}
	}

	switch format {
	case "", FormatText:
		for _, turn := range result.Messages {
			if _, err := fmt.Fprintf(w, "%s: %s\n", turn.Sender, turn.Text); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		if _, err := fmt.Fprintf(w, "# Session %s\n", result.SessionID); err != nil {
			return err
		}
		for _, turn := range result.Messages {
			if _, err := fmt.Fprintf(w, "\n### %s\n\n%s\n", turn.Sender, turn.Text); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml or markdown)", format)
	}
}
