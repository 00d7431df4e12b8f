package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fadedpez/blackjackpalace/internal/types"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "player", "Ana")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "player=Ana")
	assert.Contains(t, out, Prefix)
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New("chatty", &buf)

	logger.Debug("debug line")
	logger.Info("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestLogError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "game error with cause",
			err:      types.WrapError(types.ErrDatabaseError, "saving stats", errors.New("disk full")),
			contains: []string{"Game error occurred", "DATABASE_ERROR", "saving stats", "disk full"},
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			contains: []string{"Unexpected error", "boom"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			LogError(New("info", &buf), tc.err)
			for _, s := range tc.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestLogErrorNil(t *testing.T) {
	var buf bytes.Buffer
	LogError(New("info", &buf), nil)
	assert.Empty(t, buf.String())
}
