package logctx_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/idelchi/diskusage/internal/logctx"
)

func TestFromContext_CarriesLogger(t *testing.T) {
	var buf bytes.Buffer

	ctx := logctx.WithLogger(context.Background(), logctx.New(&buf, zerolog.DebugLevel, false))
	ctx = logctx.WithStr(ctx, "path", "/srv")

	logctx.FromContext(ctx).Debug().Msg("walking")

	assert.Contains(t, buf.String(), `"path":"/srv"`)
	assert.Contains(t, buf.String(), `"message":"walking"`)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	logger := logctx.FromContext(context.Background())

	assert.Equal(t, logctx.DefaultLogger().GetLevel(), logger.GetLevel())
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := logctx.New(&buf, zerolog.WarnLevel, false)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logctx.ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, logctx.ParseLevel("WARN"))
	assert.Equal(t, zerolog.ErrorLevel, logctx.ParseLevel("Error"))
	assert.Equal(t, zerolog.InfoLevel, logctx.ParseLevel("verbose"))
}
