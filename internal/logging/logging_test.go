package logging

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, levelFromString(in), in)
	}
}

func TestWithRunAssignsUUID(t *testing.T) {
	logger, id := WithRun(New("error"))
	require.NotNil(t, logger)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	_, other := WithRun(New("error"))
	assert.NotEqual(t, id, other)
}
