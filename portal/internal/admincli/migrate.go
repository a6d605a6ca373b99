package admincli

import (
	"github.com/aiuniverse/universe/portal/internal/db/model/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer client.Close()

			return migrations.Migrate(cmd.Context(), migrate.NewMigrator(client, migrations.Migrations))
		},
	}
}
