package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mrlokans/bookfinder/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("builds console logger at requested level", func(t *testing.T) {
		logger, err := New(config.Log{Level: "warn", Format: "console"})
		require.NoError(t, err)

		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("builds json logger", func(t *testing.T) {
		logger, err := New(config.Log{Level: "debug", Format: "json"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(config.Log{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestNewOrNop(t *testing.T) {
	logger := NewOrNop(config.Log{Level: "loud"})
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
