package cli

import (
	"fmt"

	"github.com/aiuniverse/universe/client/store"
	"github.com/spf13/cobra"
)

func NewThemeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the preferred theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(store.ThemeLight), string(store.ThemeDark), string(store.ThemeSystem)},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme := appFrom(cmd).Theme
			if len(args) == 1 {
				if err := theme.SetTheme(store.Theme(args[0])); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", theme.Theme(), theme.ActualTheme())
			return nil
		},
	}
}
