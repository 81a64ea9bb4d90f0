package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContext(t *testing.T) {
	t.Run("round-trips a logger through context", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("returns no-op logger when absent", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		logger.Info("does nothing")
	})

	t.Run("WithRequestID enriches logger and context", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		logger := zap.New(core)

		ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
		enriched.Info("message")

		assert.Equal(t, "req-123", GetRequestID(ctx))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
	})

	t.Run("GetRequestID on empty context", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
	})
}
