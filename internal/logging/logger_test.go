package logging_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNew_NormalizesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(slog.LevelInfo, logging.FormatJSON, &buf)
	log.Info("boom", "error", errors.New("bad"))

	assert.Contains(t, buf.String(), `"err":"bad"`)
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(slog.LevelWarn, logging.FormatText, &buf)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParse(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("whatever"))
	assert.Equal(t, logging.FormatJSON, logging.ParseFormat("json"))
	assert.Equal(t, logging.FormatText, logging.ParseFormat(""))
}
