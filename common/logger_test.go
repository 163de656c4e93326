package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Info("surface configured", "width", 800)
	assert.Contains(t, buf.String(), "surface configured")
	assert.Contains(t, buf.String(), "width=800")
}
