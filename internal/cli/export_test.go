package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dyike/mentorchat/models"
)

var sampleHistory = models.HistoryResult{
	SessionID: "A",
	Messages: []models.Turn{
		{Sender: models.SenderUser, Text: "what is a p-value?"},
		{Sender: models.SenderAssistant, Text: "The probability of data at least as extreme, under H0."},
	},
}

func TestWriteHistoryText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, FormatText, sampleHistory))
	assert.Equal(t, "user: what is a p-value?\nassistant: The probability of data at least as extreme, under H0.\n", buf.String())
}

func TestWriteHistoryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, FormatJSON, sampleHistory))

	var got models.HistoryResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleHistory, got)
}

func TestWriteHistoryYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, FormatYAML, sampleHistory))
	assert.Contains(t, buf.String(), "session_id: A")

	var got models.HistoryResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleHistory, got)
}

func TestWriteHistoryEmptyJSONHasArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, FormatJSON, models.HistoryResult{SessionID: "none"}))
	assert.Contains(t, buf.String(), `"messages": []`)
}

func TestWriteHistoryUnknownFormat(t *testing.T) {
	assert.Error(t, WriteHistory(&bytes.Buffer{}, "xml", sampleHistory))
}

func TestWriteHistoryMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, FormatMarkdown, sampleHistory))
	assert.Equal(t, "# Session A\n\n### user\n\nwhat is a p-value?\n\n### assistant\n\nThe probability of data at least as extreme, under H0.\n", buf.String())
}
