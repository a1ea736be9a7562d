package journalstream

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogStreamer_Stream(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	streamer := NewLogStreamer(logger)

	logEntry := &types.ApplyLogItem{
		JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeApply},
		Step:             1,
		Pos:              2,
		Value:            5,
		Best:             9,
		Total:            15,
		Success:          true,
	}

	streamer.Stream(logEntry)

	var logOutput map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logOutput)
	require.NoError(t, err)

	assert.Equal(t, "streaming journal entry", logOutput["msg"])

	entryField, ok := logOutput["entry"].(string)
	require.True(t, ok)

	var inner map[string]interface{}
	err = json.Unmarshal([]byte(entryField), &inner)
	require.NoError(t, err)

	assert.Equal(t, float64(1), inner["step"])
	assert.Equal(t, float64(2), inner["pos"])
	assert.Equal(t, float64(9), inner["best"])
}

func TestNoOpStreamer_Stream(t *testing.T) {
	streamer := NewNoOpStreamer()
	streamer.Stream(&types.ApplyLogItem{})
}
