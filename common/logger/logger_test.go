package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	assert.Equal(t, "unknown", RequestID(context.Background()))

	ctx := WithContext(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))
}

func TestHelpersAttachRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)
	ctx := WithContext(context.Background(), "req-7")

	Info(ctx, l, "cart saved", zap.Int("lines", 2))
	Error(ctx, l, "cart save failed", errors.New("disk full"))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
		assert.Equal(t, int64(2), entries[0].ContextMap()["lines"])
		assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := New(env)
		assert.NoError(t, err)
		assert.NotNil(t, l)
	}
}
