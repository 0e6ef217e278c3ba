package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	t.Run("Success", func(t *testing.T) {
		ok := Run(log, "noop", func() error { return nil })
		assert.True(t, ok)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("Error is logged and swallowed", func(t *testing.T) {
		ok := Run(log, "notify", func() error { return errors.New("smtp down") }, zap.String("idea_id", "42"))
		assert.False(t, ok)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		ctx := entries[0].ContextMap()
		assert.Equal(t, "notify", ctx["effect"])
		assert.Equal(t, "42", ctx["idea_id"])
		assert.Equal(t, "smtp down", ctx["error"])
	})

	t.Run("Panic is recovered", func(t *testing.T) {
		ok := Run(log, "broadcast", func() error { panic("boom") })
		assert.False(t, ok)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
	})
}
