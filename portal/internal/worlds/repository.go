package worlds

//go:generate go tool mockgen -destination repository_mock.go -package worlds . Repository

import (
	"context"
	"fmt"

	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/uptrace/bun"
)

const slugConstraint = "ai_worlds_slug_key"

type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.World, error)
	ListPublic(ctx context.Context) ([]model.World, error)
	Find(ctx context.Context, id string) (*model.World, error)
	FindBySlug(ctx context.Context, slug string) (*model.World, error)
	Insert(ctx context.Context, world *model.World) error
	Update(ctx context.Context, world *model.World) error
	Delete(ctx context.Context, id string) error
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

func (r *BunRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.World, error) {
	var worlds []model.World
	if err := r.db.NewSelect().Model(&worlds).Where("user_id = ?", ownerID).Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	return worlds, nil
}

func (r *BunRepository) ListPublic(ctx context.Context) ([]model.World, error) {
	var worlds []model.World
	if err := r.db.NewSelect().Model(&worlds).Where("public = TRUE").Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list public worlds: %w", err)
	}
	return worlds, nil
}

func (r *BunRepository) Find(ctx context.Context, id string) (*model.World, error) {
	if !db.ValidID(id) {
		return nil, ErrNotFound
	}

	world := new(model.World)
	if err := r.db.NewSelect().Model(world).Where("id = ?", id).Scan(ctx); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find world: %w", err)
	}
	return world, nil
}

func (r *BunRepository) FindBySlug(ctx context.Context, slug string) (*model.World, error) {
	world := new(model.World)
	if err := r.db.NewSelect().Model(world).Where("slug = ?", slug).Scan(ctx); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find world by slug: %w", err)
	}
	return world, nil
}

func (r *BunRepository) Insert(ctx context.Context, world *model.World) error {
	if _, err := r.db.NewInsert().Model(world).Exec(ctx); err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return ErrDupSlug
		}
		return fmt.Errorf("insert world: %w", err)
	}
	return nil
}

func (r *BunRepository) Update(ctx context.Context, world *model.World) error {
	res, err := r.db.NewUpdate().Model(world).
		ExcludeColumn("id", "user_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return ErrDupSlug
		}
		return fmt.Errorf("update world: %w", err)
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

	res, err := r.db.NewDelete().Model((*model.World)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete world: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
