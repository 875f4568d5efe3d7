// Package retry implements a reusable bounded-retry policy with exponential
// backoff and jitter. The backoff math is defined exactly once here; callers
// choose how to wait (blocking sleep vs context-aware timer) and how to
// classify errors (transient vs fatal).
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrExhausted marks failures where every attempt was spent. The wrapped
// chain also carries the last underlying error.
var ErrExhausted = errors.New("retries exhausted")

// DefaultBaseDelay is the backoff base B: the delay before the second
// attempt is B, then B*2, B*4, ...
const DefaultBaseDelay = 5 * time.Second

// Class partitions errors into those worth retrying and those that are not.
type Class int

const (
	// Transient errors (connectivity, throttling) are retried.
	Transient Class = iota
	// Fatal errors (bad credentials, invalid request) surface immediately.
	Fatal
)

// Classifier decides whether an attempt error is worth retrying.
type Classifier func(error) Class

// WaitFunc performs the inter-attempt delay. It returns an error only when
// the wait was cut short by cancellation.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the blocking wait strategy: it occupies the calling goroutine for
// the full delay and does not observe cancellation mid-sleep.
func Sleep(_ context.Context, d time.Duration) error {
	time.Sleep(d)
	return nil
}

// WaitContext is the cooperative wait strategy: the delay yields to the
// scheduler and aborts early if ctx is cancelled.
func WaitContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy bundles the retry parameters. The zero value is not usable; fill
// MaxAttempts and Classify at minimum.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the backoff base. Zero means DefaultBaseDelay.
	BaseDelay time.Duration

	// Jitter returns the random fraction of a second in [0, 1) added to
	// each delay. Nil means rand.Float64. Tests inject a fixed value.
	Jitter func() float64

	// Classify separates transient from fatal errors. Nil treats every
	// error as transient.
	Classify Classifier

	// Wait is the inter-attempt wait strategy. Nil means WaitContext.
	Wait WaitFunc

	// OnRetry, if set, observes every scheduled retry: the attempt that
	// just failed, the delay before the next one, and the error.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Delay returns the backoff delay scheduled after a failed attempt
// (1-based): base * 2^(attempt-1) plus jitter in [0, 1) seconds.
func (p Policy) Delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base == 0 {
		base = DefaultBaseDelay
	}
	jitter := rand.Float64
	if p.Jitter != nil {
		jitter = p.Jitter
	}
	d := base << (attempt - 1)
	return d + time.Duration(jitter()*float64(time.Second))
}

// Do runs op until it succeeds, fails fatally, is cancelled, or the attempt
// budget is spent. Attempts are strictly sequential, never overlapping.
// Cancellation is checked before every attempt and, with the WaitContext
// strategy, during every delay.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	classify := p.Classify
	if classify == nil {
		classify = func(error) Class { return Transient }
	}
	wait := p.Wait
	if wait == nil {
		wait = WaitContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if classify(err) == Fatal {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if werr := wait(ctx, delay); werr != nil {
			return werr
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}
