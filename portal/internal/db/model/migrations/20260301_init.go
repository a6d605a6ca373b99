package migrations

import (
	"context"

	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.Account)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.User)(nil)).
			ForeignKey(`("id") REFERENCES "accounts" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.World)(nil)).
			ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().IfNotExists().Model((*model.World)(nil)).
			Index("ai_worlds_user_id_idx").Column("user_id").
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, m := range []any{(*model.World)(nil), (*model.User)(nil), (*model.Account)(nil)} {
			if _, err := db.NewDropTable().IfExists().Model(m).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
