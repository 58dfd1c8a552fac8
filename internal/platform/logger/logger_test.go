package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("nope"))
	assert.Equal(t, FormatJSON, ParseFormat(" json "))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestWithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core)).With(map[string]any{"farm_id": "f1"})

	l.Debug("hidden", nil)
	l.Error("gateway failure", map[string]any{"op": "append_activity", "err": errors.New("boom"), "": "skip"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "gateway failure", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "f1", ctx["farm_id"])
	assert.Equal(t, "append_activity", ctx["op"])
	assert.Equal(t, "boom", ctx["err"])
	_, hasEmpty := ctx[""]
	assert.False(t, hasEmpty)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing", map[string]any{"a": 1})
	assert.NotNil(t, l.With(map[string]any{"b": 2}))
}
