package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const period = 30 * 24 * time.Hour

var (
	ErrNotFound      = errors.New("subscription not found")
	ErrAlreadyActive = errors.New("already subscribed to this world")
)

type WorldViewer interface {
	Get(ctx context.Context, viewerID, id string) (*model.World, error)
}

type SubscriptionService struct {
	db     *bun.DB
	worlds WorldViewer
	now    func() time.Time
}

func New(db *bun.DB, worlds WorldViewer) *SubscriptionService {
	return &SubscriptionService{
		db:     db,
		worlds: worlds,
		now:    time.Now,
	}
}

// Amount is what a subscription to world costs. Free worlds cost nothing.
func Amount(world *model.World) float64 {
	if world.Pricing.Free || world.Pricing.Price < 0 {
		return 0
	}
	return world.Pricing.Price
}

func newSubscription(userID string, world *model.World, now time.Time) *model.Subscription {
	now = now.UTC()
	return &model.Subscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		WorldID:   world.ID,
		Status:    entity.SubscriptionActive,
		Amount:    Amount(world),
		StartedAt: now,
		ExpiresAt: bun.NullTime{Time: now.Add(period)},
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, userID, worldID string) (*model.Subscription, error) {
	world, err := s.worlds.Get(ctx, userID, worldID)
	if err != nil {
		return nil, err
	}

	active, err := s.db.NewSelect().
		Model((*model.Subscription)(nil)).
		Where("user_id = ?", userID).
		Where("world_id = ?", worldID).
		Where("status = ?", entity.SubscriptionActive).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if active {
		return nil, ErrAlreadyActive
	}

	subscription := newSubscription(userID, world, s.now())
	if _, err := s.db.NewInsert().Model(subscription).Exec(ctx); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return nil, fmt.Errorf("world %s: %w", worldID, err)
		}
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return subscription, nil
}

func (s *SubscriptionService) List(ctx context.Context, userID string) ([]model.Subscription, error) {
	var subscriptions []model.Subscription
	if err := s.db.NewSelect().Model(&subscriptions).Where("user_id = ?", userID).Order("started_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, userID, id string) error {
	if !db.ValidID(id) {
		return ErrNotFound
	}

	res, err := s.db.NewUpdate().
		Model((*model.Subscription)(nil)).
		Set("status = ?", entity.SubscriptionCancelled).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireDue marks active subscriptions whose expiry has passed as inactive.
func (s *SubscriptionService) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.NewUpdate().
		Model((*model.Subscription)(nil)).
		Set("status = ?", entity.SubscriptionInactive).
		Where("status = ?", entity.SubscriptionActive).
		Where("expires_at < ?", now.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func ToWeb(s *model.Subscription) web.Subscription {
	result := web.Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		WorldID:   s.WorldID,
		Status:    s.Status,
		Amount:    s.Amount,
		StartedAt: s.StartedAt,
	}
	if !s.ExpiresAt.IsZero() {
		expires := s.ExpiresAt.Time
		result.ExpiresAt = &expires
	}
	return result
}

func ToWebList(subscriptions []model.Subscription) []web.Subscription {
	result := make([]web.Subscription, 0, len(subscriptions))
	for i := range subscriptions {
		result = append(result, ToWeb(&subscriptions[i]))
	}
	return result
}
