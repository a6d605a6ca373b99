package cron

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aiuniverse/universe/portal/internal/config"
	"github.com/robfig/cron/v3"
)

type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type AnalyticsPurger interface {
	PurgeBefore(ctx context.Context, t time.Time) (int64, error)
}

type CronService struct {
	subscriptions SubscriptionExpirer
	analytics     AnalyticsPurger
	retention     time.Duration
	now           func() time.Time
	jitter        func() time.Duration
}

func NewCronService(cfg *config.Config, subscriptions SubscriptionExpirer, analytics AnalyticsPurger) *CronService {
	return &CronService{
		subscriptions: subscriptions,
		analytics:     analytics,
		retention:     cfg.AnalyticsRetention(),
		now:           time.Now,
		jitter: func() time.Duration {
			return time.Duration(rand.IntN(10)) * time.Minute
		},
	}
}

func (cr *CronService) runExpireSubscriptionsJob(ctx context.Context) {
	n, err := cr.subscriptions.ExpireDue(ctx, cr.now())
	if err != nil {
		slog.Error("Failed to expire subscriptions", slog.Any("error", err))
		return
	}
	slog.Info("Expired subscriptions", slog.Int64("count", n))
}

func (cr *CronService) runPurgeAnalyticsJob(ctx context.Context) {
	if cr.retention <= 0 {
		// Retention is disabled.
		return
	}

	n, err := cr.analytics.PurgeBefore(ctx, cr.now().Add(-cr.retention))
	if err != nil {
		slog.Error("Failed to purge analytics", slog.Any("error", err))
		return
	}
	slog.Info("Purged analytics events", slog.Int64("count", n))
}

func (cr *CronService) withDelay(ctx context.Context, fn func(ctx context.Context)) func() {
	return func() {
		timer := time.NewTimer(cr.jitter())
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		fn(ctx)
	}
}

func (cr *CronService) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	// Every hour
	// Mark subscriptions past their expiry as inactive.
	if _, err := c.AddFunc("0 * * * *", cr.withDelay(ctx, cr.runExpireSubscriptionsJob)); err != nil {
		return err
	}

	// 03:00 every day
	// Delete analytics events older than the retention period.
	if _, err := c.AddFunc("0 3 * * *", cr.withDelay(ctx, cr.runPurgeAnalyticsJob)); err != nil {
		return err
	}

	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
