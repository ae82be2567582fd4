// Package retry executa operações com uma política de tentativas explícita.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Backoff calcula a espera antes da próxima tentativa. attempt começa em 1.
type Backoff func(attempt int) time.Duration

// Linear espera base*attempt (1s, 2s, 3s... para base=1s).
func Linear(base time.Duration) Backoff {
	return func(attempt int) time.Duration { return base * time.Duration(attempt) }
}

// Fixed espera sempre o mesmo intervalo.
func Fixed(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// SleepFunc aguarda d ou o cancelamento do contexto.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy define tentativas e espera entre elas.
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
	// Sleep é substituível em testes; nil usa um timer real.
	Sleep SleepFunc
	// Retryable decide se um erro merece nova tentativa; nil repete qualquer erro.
	Retryable func(error) bool
	// OnRetry é chamado após cada falha que terá nova tentativa.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// ExhaustedError indica que todas as tentativas falharam.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// TimerSleep é o SleepFunc padrão.
func TimerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do executa fn até sucesso, erro não repetível, cancelamento ou fim das tentativas.
// Não há espera depois da última tentativa.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = TimerSleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, lastErr)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}
