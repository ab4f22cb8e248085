package shared

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false, true)
	logger.Debug().Msg("hidden")
	logger.Info().Str("round_id", "abc").Msg("Round settled")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["round_id"])
	assert.Contains(t, entry, "time")
}

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true, false)
	logger.Debug().Msg("Action applied")

	assert.Contains(t, buf.String(), "Action applied")
	assert.Contains(t, buf.String(), "DBG")
}
