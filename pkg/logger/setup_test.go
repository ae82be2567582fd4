package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Run("Default Level Info", func(t *testing.T) {
		_ = ConfigureWriter(config.LoggingConf{Enabled: true}, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("Custom Level Debug", func(t *testing.T) {
		_ = ConfigureWriter(config.LoggingConf{Enabled: true, Level: "DEBUG"}, &bytes.Buffer{})
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("Invalid Level Falls Back To Info", func(t *testing.T) {
		_ = ConfigureWriter(config.LoggingConf{Enabled: true, Level: "loud"}, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("JSON Output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := ConfigureWriter(config.LoggingConf{Enabled: true, Level: "info", Format: "json"}, &buf)
		logger.Info().Str("table", "tb_books").Msg("seed completado")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "seed completado", entry["message"])
		assert.Equal(t, "tb_books", entry["table"])
		assert.Contains(t, entry, "time")
	})

	t.Run("Disabled Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := ConfigureWriter(config.LoggingConf{Enabled: false}, &buf)
		logger.Info().Msg("teste")
		assert.Zero(t, buf.Len())
	})
}
