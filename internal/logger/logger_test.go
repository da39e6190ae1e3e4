package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	log, err := New(true, false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))

	log, err = New(false, true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	WithFields(log, zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bar", entries[0].ContextMap()["foo"])

	assert.NotNil(t, WithFields(nil, zap.String("baz", "qux")))
	assert.Same(t, log, WithFields(log))
}

func TestMatchFields(t *testing.T) {
	fields := MatchFields("req-1", " jobs ", "")
	require.Len(t, fields, 2)
	assert.Equal(t, FieldRequestID, fields[0].Key)
	assert.Equal(t, "req-1", fields[0].String)
	assert.Equal(t, FieldDirection, fields[1].Key)
	assert.Equal(t, "jobs", fields[1].String)

	assert.Empty(t, MatchFields("", "", ""))
}
