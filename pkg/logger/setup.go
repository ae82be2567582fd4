package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure inicializa o logger global a partir da configuração de ambiente.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return ConfigureWriter(cfg, os.Stdout)
}

// ConfigureWriter é como Configure, mas escreve em out.
func ConfigureWriter(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	// handlers usam log.Ctx, que cai no logger global quando o contexto não tem um
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return logger
}
