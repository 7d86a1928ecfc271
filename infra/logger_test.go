package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLoggerClientShutdown(t *testing.T) {
	logger := NewConsoleLoggerClient()
	ctx := context.Background()

	logger.InfoWithContextf(ctx, "starting %s", "up")
	logger.WarningWithContextf(ctx, "counter at %d", 1)
	logger.ErrorWithContextf(ctx, errors.New("boom"), "failed: %v", "boom")
	logger.ErrorWithContextf(ctx, nil, "failed without cause")

	// Shutdown must be safe to call at process exit even when no OTLP
	// providers were ever configured.
	assert.NoError(t, logger.Shutdown(ctx))
	assert.NoError(t, logger.Shutdown(ctx))
}
