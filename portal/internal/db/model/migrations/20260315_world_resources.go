package migrations

import (
	"context"

	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/uptrace/bun"
)

const worldReference = `("world_id") REFERENCES "ai_worlds" ("id") ON DELETE CASCADE`

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.WorldEvent)(nil)).
			ForeignKey(worldReference).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.AnalyticsEvent)(nil)).
			ForeignKey(worldReference).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().IfNotExists().Model((*model.AnalyticsEvent)(nil)).
			Index("analytics_events_world_id_timestamp_idx").Column("world_id", "timestamp").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.Translation)(nil)).
			ForeignKey(worldReference).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().IfNotExists().Model((*model.Subscription)(nil)).
			ForeignKey(worldReference).
			ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, m := range []any{
			(*model.Subscription)(nil),
			(*model.Translation)(nil),
			(*model.AnalyticsEvent)(nil),
			(*model.WorldEvent)(nil),
		} {
			if _, err := db.NewDropTable().IfExists().Model(m).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
