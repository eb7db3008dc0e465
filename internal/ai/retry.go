package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// retrier owns the attempt budget and exponential backoff of one runtime.
type retrier struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	log       *zap.Logger
}

func newRetrier(c Config, attempts int, base, max time.Duration) retrier {
	r := retrier{attempts: c.RetryMax, baseDelay: c.BaseDelay, maxDelay: c.MaxDelay, log: c.Logger}
	if r.attempts <= 0 {
		r.attempts = attempts
	}
	if r.baseDelay <= 0 {
		r.baseDelay = base
	}
	if r.maxDelay <= 0 {
		r.maxDelay = max
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// delay returns the jittered, capped backoff before the given retry (1-based).
func (r retrier) delay(attempt int) time.Duration {
	d := r.baseDelay << (attempt - 1)
	if d <= 0 || d > r.maxDelay {
		d = r.maxDelay
	}
	d = withJitter(d)
	if d > r.maxDelay {
		d = r.maxDelay
	}
	return d
}

// wait sleeps for d unless ctx ends first.
func (r retrier) wait(ctx context.Context, attempt int, d time.Duration, cause error) error {
	r.log.Debug("retrying ai request", zap.Int("attempt", attempt), zap.Duration("delay", d), zap.Error(cause))
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withJitter applies +/- 20% jitter.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

// retryable reports whether a status code is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// parseRetryAfter interprets a Retry-After header as seconds or an HTTP date.
func parseRetryAfter(v string) (time.Duration, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(s) * time.Second, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// exchange is one runtime's view of an HTTP round trip.
type exchange struct {
	send     func(ctx context.Context) (*http.Response, error)
	decode   func(resp *http.Response) error
	netErr   func(err error) error
	classify func(e *APIError, resp *http.Response) error
}

// do runs x until it succeeds, fails permanently or the attempt budget runs out.
// 429 and 5xx responses are retried, honouring Retry-After when present.
func (r retrier) do(ctx context.Context, x exchange) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		last := attempt == r.attempts
		resp, err := x.send(ctx)
		if err != nil {
			if isRetryableNetErr(err) && !last {
				lastErr = err
				if werr := r.wait(ctx, attempt, r.delay(attempt), err); werr != nil {
					return werr
				}
				continue
			}
			return x.netErr(err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := readAPIError(resp)
			resp.Body.Close()
			if retryable(resp.StatusCode) && !last {
				d := r.delay(attempt)
				if v := resp.Header.Get("Retry-After"); v != "" {
					if ra, err := parseRetryAfter(v); err == nil && ra > 0 {
						d = ra
					}
				}
				lastErr = apiErr
				if werr := r.wait(ctx, attempt, d, apiErr); werr != nil {
					return werr
				}
				continue
			}
			return x.classify(apiErr, resp)
		}
		err = x.decode(resp)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return lastErr
}
