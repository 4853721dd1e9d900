package engine

import (
	"context"
	"strings"
	"time"

	"scalpbot/internal/exchange"
	"scalpbot/internal/models"
)

const (
	retryAttempts = 5
	retryBase     = 1 * time.Second
	retryMax      = 30 * time.Second
)

func (e *Engine) withRetryRules(ctx context.Context, symbol string) (exchange.InstrumentRules, error) {
	var lastErr error
	backoff := retryBase
	for i := 0; i < retryAttempts; i++ {
		rules, err := e.client.GetInstrumentRules(ctx, symbol)
		if err == nil {
			return rules, nil
		}
		lastErr = err
		if err := e.retryWait(ctx, err, &backoff); err != nil {
			return exchange.InstrumentRules{}, err
		}
	}
	return exchange.InstrumentRules{}, lastErr
}

func (e *Engine) withRetryPosition(ctx context.Context) (models.Position, error) {
	var lastErr error
	backoff := retryBase
	for i := 0; i < retryAttempts; i++ {
		pos, err := e.client.GetPosition(ctx, e.cfg.Bot.Symbol)
		if err == nil {
			return pos, nil
		}
		lastErr = err
		if err := e.retryWait(ctx, err, &backoff); err != nil {
			return models.Position{}, err
		}
	}
	return models.Position{}, lastErr
}

func (e *Engine) withRetryOrders(ctx context.Context) ([]models.Order, error) {
	var lastErr error
	backoff := retryBase
	for i := 0; i < retryAttempts; i++ {
		orders, err := e.client.GetOrders(ctx, e.cfg.Bot.Symbol)
		if err == nil {
			return orders, nil
		}
		lastErr = err
		if err := e.retryWait(ctx, err, &backoff); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (e *Engine) retryWait(ctx context.Context, cause error, backoff *time.Duration) error {
	wait := *backoff
	if isRateLimitError(cause) {
		wait = minDuration(wait*4, retryMax)
	}
	e.logEntry().WithError(cause).WithField("wait", wait.String()).Warn("Ошибка запроса, повтор после паузы.")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}
	*backoff = minDuration(*backoff*2, retryMax)
	return nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "Too Many") || strings.Contains(msg, "rate limit")
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
