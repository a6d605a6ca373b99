package events

//go:generate go tool mockgen -destination repository_mock.go -package events . Repository,WorldFinder

import (
	"context"
	"fmt"

	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/uptrace/bun"
)

type Repository interface {
	List(ctx context.Context, viewerID, worldID string) ([]model.WorldEvent, error)
	ListUpcoming(ctx context.Context, limit int) ([]model.WorldEvent, error)
	Find(ctx context.Context, id string) (*model.WorldEvent, error)
	Insert(ctx context.Context, event *model.WorldEvent) error
	Update(ctx context.Context, event *model.WorldEvent) error
	Delete(ctx context.Context, id string) error
}

// WorldFinder looks up the world an event belongs to.
type WorldFinder interface {
	Find(ctx context.Context, id string) (*model.World, error)
}

type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db: db,
	}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) selectWithWorld(events any) *bun.SelectQuery {
	return r.db.NewSelect().Model(events).
		Relation("World", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("title", "user_id")
		})
}

// List returns the events of public worlds and of worlds viewerID owns,
// optionally narrowed to one world.
func (r *BunRepository) List(ctx context.Context, viewerID, worldID string) ([]model.WorldEvent, error) {
	if worldID != "" && !db.ValidID(worldID) {
		return nil, nil
	}

	var events []model.WorldEvent
	q := r.selectWithWorld(&events).OrderExpr("e.start_time ASC NULLS LAST")
	if db.ValidID(viewerID) {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("world.public = TRUE").WhereOr("world.user_id = ?", viewerID)
		})
	} else {
		q = q.Where("world.public = TRUE")
	}
	if worldID != "" {
		q = q.Where("e.world_id = ?", worldID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *BunRepository) ListUpcoming(ctx context.Context, limit int) ([]model.WorldEvent, error) {
	var events []model.WorldEvent
	if err := r.selectWithWorld(&events).
		Where("e.start_time >= current_timestamp").
		Where("world.public = TRUE").
		OrderExpr("e.start_time ASC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

func (r *BunRepository) Find(ctx context.Context, id string) (*model.WorldEvent, error) {
	if !db.ValidID(id) {
		return nil, ErrNotFound
	}

	event := new(model.WorldEvent)
	if err := r.selectWithWorld(event).Where("e.id = ?", id).Scan(ctx); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return event, nil
}

func (r *BunRepository) Insert(ctx context.Context, event *model.WorldEvent) error {
	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return ErrWorldGone
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *BunRepository) Update(ctx context.Context, event *model.WorldEvent) error {
	res, err := r.db.NewUpdate().Model(event).
		ExcludeColumn("id", "world_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BunRepository) Delete(ctx context.Context, id string) error {
	if !db.ValidID(id) {
		return ErrNotFound
	}

	res, err := r.db.NewDelete().Model((*model.WorldEvent)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
