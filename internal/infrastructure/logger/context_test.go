package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextFromContext(t *testing.T) {
	log := zap.NewNop()

	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContextFallback(t *testing.T) {
	log := FromContext(context.Background())

	// No middleware ran; callers still get a usable logger.
	require.NotNil(t, log)
	log.Info("must not panic")
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithRequestID(context.Background(), zap.New(core), "req-123")
	log.Info("tagged")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, log, FromContext(ctx))

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithUserID(context.Background(), zap.New(core), "user-42")
	log.Info("tagged")

	assert.Equal(t, "user-42", GetUserID(ctx))
	assert.Same(t, log, FromContext(ctx))

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "user-42", entries[0].ContextMap()["user_id"])
}

func TestWithRequestIDThenUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithRequestID(context.Background(), zap.New(core), "req-123")
	ctx, log = WithUserID(ctx, log, "user-42")
	log.Info("tagged")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-42", GetUserID(ctx))

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "user-42", fields["user_id"])
}

func TestGetRequestIDEmpty(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetUserIDEmpty(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}
