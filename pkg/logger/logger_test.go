package logger_test

import (
	"testing"

	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/Leopold1975/notes_app/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewInvalidLevel(t *testing.T) {
	_, err := logger.New(config.Logger{Level: "loud"})
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	lg, err := logger.New(config.Logger{Level: "debug", Output: []string{"stdout"}})
	require.NoError(t, err)
	lg.Debug("debug message", "k", "v")
}

func TestKeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := logger.FromZap(zap.New(core))

	lg.With("request_id", "abc").Info("note created", "note_id", "42")
	lg.Errorf("delete note %s error: %s", "42", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, "note created", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "abc", fields["request_id"])
	require.Equal(t, "42", fields["note_id"])

	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.Equal(t, "delete note 42 error: boom", entries[1].Message)
}
