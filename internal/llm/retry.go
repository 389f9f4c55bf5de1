package llm

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/metrics"
	"github.com/awfulsec/textnews/internal/news"
)

// Retry defaults. The delay before attempt n is
// min(baseDelay * 2^(n-1), maxDelay) plus a uniformly random jitter.
const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 30 * time.Second

	maxJitter = 250 * time.Millisecond
)

// RetryAsker decorates any news.Asker with jittered exponential backoff.
// Intermediate failures are logged and discarded; only the error from the
// final attempt is surfaced to the caller.
type RetryAsker struct {
	inner      news.Asker
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
}

// NewRetryAsker wraps inner with retry behavior. Negative or zero durations
// and a negative retry count fall back to the package defaults; maxRetries of
// zero is honored and means a single attempt.
func NewRetryAsker(inner news.Asker, maxRetries int, baseDelay, maxDelay time.Duration, logger *zap.Logger) *RetryAsker {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryAsker{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		logger:     logger,
	}
}

// Ask calls the wrapped Asker, retrying failed attempts until the retry budget
// is exhausted. The total number of calls is at most maxRetries+1.
func (r *RetryAsker) Ask(ctx context.Context, text string) (string, error) {
	totalT0 := time.Now()
	attempt := 0

	for {
		attemptT0 := time.Now()
		resp, err := r.inner.Ask(ctx, text)
		if err == nil {
			metrics.ObserveAskAttempt("success", time.Since(attemptT0))
			return resp, nil
		}
		metrics.ObserveAskAttempt("error", time.Since(attemptT0))

		attempt++
		if attempt > r.maxRetries {
			r.logger.Error("ask exhausted retries",
				zap.Int("attempt", attempt),
				zap.Int("max", r.maxRetries),
				zap.Duration("elapsed_attempt", time.Since(attemptT0)),
				zap.Duration("elapsed_total", time.Since(totalT0)),
				zap.Error(err),
			)
			return "", err
		}

		delay := r.backoff(attempt) + randomJitter(maxJitter)
		r.logger.Warn("ask attempt failed; backing off",
			zap.Int("attempt", attempt),
			zap.Int("max", r.maxRetries),
			zap.Duration("elapsed_attempt", time.Since(attemptT0)),
			zap.Duration("elapsed_total", time.Since(totalT0)),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("backoff interrupted: %w", ctx.Err())
		}
	}
}

// backoff returns the pre-jitter delay before the given attempt (1-based):
// baseDelay doubled per attempt, capped at maxDelay.
func (r *RetryAsker) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= r.maxDelay {
			return r.maxDelay
		}
	}
	if delay > r.maxDelay {
		return r.maxDelay
	}
	return delay
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	bound := big.NewInt(int64(limit))
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}
