package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurante/internal/config"
)

func TestNew(t *testing.T) {
	appCfg := config.AppConfig{Name: "restaurante", Environment: "test", Version: "0.1.0"}

	t.Run("Defaults", func(t *testing.T) {
		logger, closer, err := New(config.LoggingConfig{}, appCfg)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Nil(t, closer)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("LevelAndStderr", func(t *testing.T) {
		cfg := config.LoggingConfig{Level: "debug", Output: "stderr"}
		logger, closer, err := New(cfg, appCfg)
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	})

	t.Run("Console", func(t *testing.T) {
		cfg := config.LoggingConfig{Level: "warn", Format: "console"}
		logger, _, err := New(cfg, appCfg)
		require.NoError(t, err)
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("FileOutput", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.log")
		cfg := config.LoggingConfig{Level: "error", Output: "file", FilePath: path}
		logger, closer, err := New(cfg, appCfg)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()

		logger.Error().Msg("written")
		assert.FileExists(t, path)
	})

	t.Run("FileWithoutPath", func(t *testing.T) {
		_, _, err := New(config.LoggingConfig{Output: "file"}, appCfg)
		assert.Error(t, err)
	})

	t.Run("UnknownLevelFallsBack", func(t *testing.T) {
		logger, _, err := New(config.LoggingConfig{Level: "shouting"}, appCfg)
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}
