package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"
)

type ResilienceOptions struct {
	MaxRetries      int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	// InitialInterval of the exponential backoff between retries.
	InitialInterval time.Duration
}

// resilientFramework retries transient failures with exponential backoff and
// stops calling an unhealthy framework through a circuit breaker.
type resilientFramework struct {
	inner   Framework
	breaker *gobreaker.CircuitBreaker[*Result]
	opts    ResilienceOptions
}

func NewResilientFramework(inner Framework, opts ResilienceOptions, logger *slog.Logger) Framework {
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	if opts.InitialInterval == 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}

	breaker := gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:        "framework",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// Cancellation says nothing about the framework's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &resilientFramework{inner: inner, breaker: breaker, opts: opts}
}

func (f *resilientFramework) Run(ctx context.Context, req Request) (*Result, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = f.opts.InitialInterval

	return backoff.Retry(ctx, func() (*Result, error) {
		result, err := f.breaker.Execute(func() (*Result, error) {
			return f.inner.Run(ctx, req)
		})
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, backoff.Permanent(fmt.Errorf("framework unavailable: %w", err))
		case errors.Is(err, ErrTransient):
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	},
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(f.opts.MaxRetries)+1),
	)
}
