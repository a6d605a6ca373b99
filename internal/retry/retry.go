package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

type backoff struct {
	rand        *rand.Rand
	curInterval time.Duration
	maxInterval time.Duration
	failAfter   time.Duration
	elapsedTime time.Duration
}

func (b *backoff) nextInterval() time.Duration {
	random := 0
	if b.rand == nil {
		random = rand.Intn(3000)
	} else {
		random = b.rand.Intn(3000)
	}

	curInterval := b.curInterval + time.Duration(random)*time.Millisecond

	b.elapsedTime += curInterval

	b.curInterval *= 2
	if b.curInterval > b.maxInterval {
		b.curInterval = b.maxInterval
	}

	return curInterval
}

func (b *backoff) finished() bool {
	return b.failAfter < b.elapsedTime
}

func (b *backoff) wait(ctx context.Context) error {
	timer := time.NewTimer(b.nextInterval())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Void struct{}

var V = Void{}

// Retry calls fn with exponential backoff until it succeeds, failAfter has
// elapsed, or ctx is done. The last error from fn is returned on give-up.
func Retry[T any](ctx context.Context, fn func(ctx context.Context) (T, error), failAfter time.Duration) (T, error) {
	b := backoff{
		curInterval: 1 * time.Second,
		maxInterval: 1 * time.Minute,
		failAfter:   failAfter,
	}

	for {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if b.finished() {
			return *new(T), err
		}

		slog.Debug("Retrying...", slog.String("error", err.Error()))

		if waitErr := b.wait(ctx); waitErr != nil {
			return *new(T), err
		}
	}
}
