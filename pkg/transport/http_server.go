package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ServerConfig controla o servidor HTTP de longa duração.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// StartHTTPServer serve handler até ctx ser cancelado e então encerra com
// graceful shutdown. Retorna nil em encerramento normal.
func StartHTTPServer(ctx context.Context, cfg ServerConfig, handler http.Handler) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("transport: listen :%d: %w", cfg.Port, err)
	}
	return Serve(ctx, ln, cfg, handler)
}

// Serve é como StartHTTPServer, mas sobre um listener já aberto.
func Serve(ctx context.Context, ln net.Listener, cfg ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("Servidor HTTP ouvindo")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info().Dur("timeout", timeout).Msg("encerrando servidor HTTP")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("transport: shutdown: %w", err)
	}
	return nil
}
