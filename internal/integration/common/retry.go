package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/provek/interview-sim/internal/entity"
	"github.com/provek/interview-sim/internal/pkg/ratelimit"
	pkgRetry "github.com/provek/interview-sim/internal/pkg/retry"
	pkgHTTP "github.com/provek/interview-sim/pkg/http"
)

const throttledDelayFactor = 3

// DoWithRetry runs fn with the shared retry policy for external services:
// network failures and 5xx responses are retried with exponential backoff,
// 429 is retried with a longer backoff, any other 4xx fails immediately.
// The rate limiter is consulted before every attempt so a saturated window
// fails fast without issuing the request.
func DoWithRetry(ctx context.Context, limiter *ratelimit.Limiter, cfg pkgRetry.RetryConfig, fn func(ctx context.Context) error) error {
	opts := cfg.ToRetryOptions()
	opts = append(opts,
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			delay := retry.BackOffDelay(n, err, config)
			if isThrottled(err) {
				delay *= throttledDelayFactor
			}
			return delay
		}),
	)

	return retry.Do(func() error {
		if limiter != nil {
			if err := limiter.Allow(); err != nil {
				return retry.Unrecoverable(err)
			}
		}
		return fn(ctx)
	}, opts...)
}

func isRetryable(err error) bool {
	var netErr *pkgHTTP.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}

func isThrottled(err error) bool {
	var httpErr *pkgHTTP.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests
}

// ClassifyError maps transport errors onto the domain sentinels so callers
// can branch without knowing the HTTP layer.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, entity.ErrTooManyRequests) {
		return entity.ErrTooManyRequests
	}

	var httpErr *pkgHTTP.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", entity.ErrTooManyRequests, err)
		}
		if httpErr.StatusCode >= 500 {
			return fmt.Errorf("%w: %v", entity.ErrServiceUnavailable, err)
		}
	}

	var netErr *pkgHTTP.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", entity.ErrServiceUnavailable, err)
	}

	return err
}
