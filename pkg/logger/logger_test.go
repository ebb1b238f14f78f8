package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/criteria/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level    string
		expected zerolog.Level
	}{
		{logger.LogLevelDebug, zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{logger.LogLevelWarning, zerolog.WarnLevel},
		{logger.LogLevelError, zerolog.ErrorLevel},
		{logger.LogLevelDisable, zerolog.Disabled},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, logger.ParseLevel(tc.level))
		})
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.LogLevelWarn, logger.JSONLoggingFormat, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("path", "name").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "name", entry["path"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriterConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.LogLevelDebug, logger.ConsoleLoggingFormat, &buf)
	log.Debug().Msg("criteria compiled")

	assert.Contains(t, buf.String(), "criteria compiled")
	assert.Contains(t, buf.String(), "DBG")
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.LogLevelInfo, logger.JSONLoggingFormat, &buf)

	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	l := log.WithContext(ctx)
	l.Info().Msg("tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])

	buf.Reset()
	l = log.WithContext(context.Background())
	l.Info().Msg("untagged")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, buf.String(), "request_id")
}
