package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrInvalidEvent = errors.New("analytics event name is required")
	ErrUnknownWorld = errors.New("unknown world")
)

const (
	maxEventNameLength = 128
	queryLimit         = 1000
)

type AnalyticsService struct {
	db  *bun.DB
	now func() time.Time
}

func New(db *bun.DB) *AnalyticsService {
	return &AnalyticsService{
		db:  db,
		now: time.Now,
	}
}

func newEvent(worldID, userID string, req web.TrackRequest, now time.Time) (*model.AnalyticsEvent, error) {
	name := strings.TrimSpace(req.EventName)
	if name == "" || len(name) > maxEventNameLength {
		return nil, ErrInvalidEvent
	}

	properties := req.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	event := &model.AnalyticsEvent{
		ID:         uuid.NewString(),
		WorldID:    worldID,
		EventName:  name,
		Properties: properties,
		Timestamp:  now.UTC(),
	}
	if userID != "" {
		event.UserID = &userID
	}
	return event, nil
}

// Track records one event for worldID. userID may be empty for anonymous visitors.
func (s *AnalyticsService) Track(ctx context.Context, worldID, userID string, req web.TrackRequest) (*model.AnalyticsEvent, error) {
	event, err := newEvent(worldID, userID, req, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.db.NewInsert().Model(event).Exec(ctx); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return nil, fmt.Errorf("%w: world %s", ErrUnknownWorld, worldID)
		}
		return nil, fmt.Errorf("insert analytics event: %w", err)
	}
	return event, nil
}

// Query returns the events of worldID between from and to, newest first. Zero bounds are open.
func (s *AnalyticsService) Query(ctx context.Context, worldID string, from, to time.Time) ([]model.AnalyticsEvent, error) {
	var events []model.AnalyticsEvent
	q := s.db.NewSelect().Model(&events).Where("world_id = ?", worldID)
	if !from.IsZero() {
		q = q.Where("timestamp >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("timestamp < ?", to.UTC())
	}
	if err := q.Order("timestamp DESC").Limit(queryLimit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	return events, nil
}

// PurgeBefore deletes events recorded before t and returns how many were removed.
func (s *AnalyticsService) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.NewDelete().Model((*model.AnalyticsEvent)(nil)).Where("timestamp < ?", t.UTC()).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge analytics: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func ToWeb(e *model.AnalyticsEvent) web.AnalyticsEvent {
	result := web.AnalyticsEvent{
		ID:         e.ID,
		WorldID:    e.WorldID,
		EventName:  e.EventName,
		Properties: e.Properties,
		Timestamp:  e.Timestamp,
	}
	if e.UserID != nil {
		result.UserID = *e.UserID
	}
	return result
}

func ToWebList(events []model.AnalyticsEvent) []web.AnalyticsEvent {
	result := make([]web.AnalyticsEvent, 0, len(events))
	for i := range events {
		result = append(result, ToWeb(&events[i]))
	}
	return result
}
