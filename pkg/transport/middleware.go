package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/raywall/bookstore-service/pkg/metrics"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type ctxKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição.
const ContextKeyCorrID ctxKey = "correlation_id"

// CorrelationID extrai o id gravado pelo middleware.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCorrID).(string)
	return id
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware propaga/gera o correlation id, injeta o logger no
// contexto e registra latência e status de cada requisição.
func ObservabilityMiddleware(provider metrics.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, corrID)

			logger := log.With().Str("correlation_id", corrID).Logger()
			ctx := logger.WithContext(r.Context())
			ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

			wrapper := &responseWriterWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				startTime:      start,
			}

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			latency := metrics.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Float64("latency_ms", latency).
				Msg("request completed")

			if provider != nil {
				tags := []string{"method:" + r.Method, "status:" + strconv.Itoa(wrapper.statusCode)}
				_ = provider.Count(metrics.HTTPRequests, 1, tags)
				_ = provider.Histogram(metrics.HTTPLatencyMillis, latency, tags)
			}
		})
	}
}
