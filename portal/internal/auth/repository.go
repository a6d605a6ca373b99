package auth

//go:generate go tool mockgen -destination repository_mock.go -package auth . UserRepository

import (
	"context"
	"fmt"

	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	FindAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	FindAccount(ctx context.Context, id string) (*model.Account, error)
	InsertUser(ctx context.Context, account *model.Account, user *model.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	FindProfile(ctx context.Context, id string) (*model.User, error)
	InsertProfile(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, user *model.User) error
}

type BunUserRepository struct {
	db *bun.DB
}

func NewBunUserRepository(db *bun.DB) *BunUserRepository {
	return &BunUserRepository{
		db: db,
	}
}

var _ UserRepository = (*BunUserRepository)(nil)

func (r *BunUserRepository) FindAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account := new(model.Account)
	if err := r.db.NewSelect().Model(account).Where("email = ?", email).Scan(ctx); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (r *BunUserRepository) FindAccount(ctx context.Context, id string) (*model.Account, error) {
	account := new(model.Account)
	if err := r.db.NewSelect().Model(account).Where("id = ?", id).Scan(ctx); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// InsertUser creates the account and its profile in one transaction.
func (r *BunUserRepository) InsertUser(ctx context.Context, account *model.Account, user *model.User) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
			if db.IsUniqueViolation(err, "accounts_email_key") {
				return ErrDupEmail
			}
			return fmt.Errorf("insert account: %w", err)
		}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
}

func (r *BunUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.NewUpdate().Model((*model.Account)(nil)).
		Set("password = ?", passwordHash).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BunUserRepository) FindProfile(ctx context.Context, id string) (*model.User, error) {
	user := new(model.User)
	if err := r.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return user, nil
}

func (r *BunUserRepository) InsertProfile(ctx context.Context, user *model.User) error {
	if _, err := r.db.NewInsert().Model(user).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *BunUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	if _, err := r.db.NewUpdate().Model(user).
		Column("name", "avatar_url", "plan", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
