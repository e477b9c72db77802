package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrapForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core)).With(zap.String("collection", "products"))

	log.Warn("normalized content", zap.Int("bytes", 4))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "normalized content", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "products", entry.ContextMap()["collection"])
	assert.EqualValues(t, 4, entry.ContextMap()["bytes"])
}

func TestNewZapLoggerWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pos.log")
	log := NewZapLogger(&ZapLoggerConfig{
		Encoding:          "json",
		Level:             "debug",
		DisableStacktrace: true,
		File:              file,
		MaxSizeMB:         1,
	})
	log.Debug("hello")
	_ = log.Sync()

	assert.FileExists(t, file)
}
