package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
storage: redis
redis:
  host: cache
  port: "6380"
  session-ttl: 1h
board:
  grid-size: 4
  box-size: 100
  border: 10
  line-width: 2
`)

		// When: it is loaded
		conf, err := Load(path)

		// Then: the values are taken from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.SessionTTL)
		assert.Equal(t, 4, conf.Board.GridSize)
		assert.Equal(t, board.Geometry{BoxSize: 100, Border: 10, LineWidth: 2}, conf.Board.Geometry())

		// Then: missing keys fall back to defaults
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, 64, conf.Socket.SendBuffer)
	})

	t.Run("Without a file the environment and defaults are used", func(t *testing.T) {
		// Given: an environment override
		t.Setenv("BOARD_GRID_SIZE", "5")

		// When: a missing file is loaded
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults and the override are applied
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, 5, conf.Board.GridSize)
		assert.Equal(t, board.DefaultGeometry(), conf.Board.Geometry())
		assert.Equal(t, 24*time.Hour, conf.Redis.SessionTTL)
		assert.Equal(t, 10*time.Second, conf.Socket.WriteTimeout)
		assert.Equal(t, 30*time.Minute, conf.Session.IdleTimeout)
	})

	t.Run("Rejects unknown storage", func(t *testing.T) {
		path := writeConfig(t, "storage: postgres\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownStorage)
	})

	t.Run("Rejects an empty grid", func(t *testing.T) {
		path := writeConfig(t, "board:\n  grid-size: -1\n")

		_, err := Load(path)

		require.ErrorIs(t, err, board.ErrInvalidGridSize)
	})

	t.Run("Rejects a broken file", func(t *testing.T) {
		path := writeConfig(t, "board: [unclosed\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Rejects a board that cannot be drawn", func(t *testing.T) {
		for name, content := range map[string]string{
			"zero box size":       "board:\n  box-size: 0\n",
			"negative border":     "board:\n  border: -1\n",
			"negative line width": "board:\n  line-width: -5\n",
		} {
			t.Run(name, func(t *testing.T) {
				// Given: a config with a broken layout
				path := writeConfig(t, content)

				// When: it is loaded
				_, err := Load(path)

				// Then: loading fails before any server starts
				require.ErrorIs(t, err, board.ErrInvalidGeometry)
			})
		}
	})

	t.Run("Rejects a non positive idle timeout", func(t *testing.T) {
		path := writeConfig(t, "session:\n  idle-timeout: 0s\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidIdleTimeout)
	})
}
