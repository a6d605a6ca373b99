package main

import (
	"os"

	"github.com/aiuniverse/universe/portal/internal/admincli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	godotenv.Load()

	cmd := &cobra.Command{
		Use:          "uvctl",
		SilenceUsage: true,
	}

	cmd.AddCommand(admincli.NewUserCommand())
	cmd.AddCommand(admincli.NewMigrateCommand())
	cmd.AddCommand(admincli.NewCopyStaticCommand())

	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
