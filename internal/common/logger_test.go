package common

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	slogmulti "github.com/samber/slog-multi"
	"github.com/stretchr/testify/assert"
)

func TestMinLevel(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(slogmulti.Pipe(minLevel(slog.LevelInfo)).Handler(inner))

	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))

	logger.Debug("Round trip", "status", 200)
	assert.Empty(t, buf.String())

	logger.With("component", "tmdb").Warn("Failed to http.RoundTripper.RoundTrip")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "component=tmdb")
}
