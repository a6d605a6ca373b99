package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/spf13/cobra"
)

func NewWorldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "worlds",
		Long: "Browse and manage AI worlds.",
	}
	cmd.AddCommand(newWorldsListCommand())
	cmd.AddCommand(newWorldsShowCommand())
	cmd.AddCommand(newWorldsCreateCommand())
	cmd.AddCommand(newWorldsUpdateCommand())
	cmd.AddCommand(newWorldsDeleteCommand())

	return cmd
}

func newWorldsListCommand() *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List public worlds, or your own with --mine",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if mine {
				if err := requireUser(cmd.Context(), app); err != nil {
					return err
				}
			}
			if err := app.Worlds.FetchWorlds(cmd.Context(), mine); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLIC")
			for _, world := range app.Worlds.State().Worlds {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", world.ID, world.Slug, world.Title, world.Public)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "List your own worlds")

	return cmd
}

func newWorldsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := app.Auth.Restore(cmd.Context()); err != nil {
				return err
			}
			if err := app.Worlds.FetchWorld(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), app.Worlds.State().CurrentWorld)
		},
	}
}

type worldFlags struct {
	title       string
	description string
	slug        string
	domain      string
	color       string
	mode        string
	public      bool
	chat        bool
	events      bool
	price       float64
}

func (f *worldFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.title, "title", "t", "", "Title")
	flags.StringVar(&f.description, "description", "", "Description")
	flags.StringVar(&f.slug, "slug", "", "URL slug (derived from the title when omitted)")
	flags.StringVar(&f.domain, "domain", "", "Custom domain")
	flags.StringVar(&f.color, "color", "", "Theme color")
	flags.StringVar(&f.mode, "mode", "", "Theme mode (light or dark)")
	flags.BoolVar(&f.public, "public", false, "Make the world public")
	flags.BoolVar(&f.chat, "chat", false, "Enable chat")
	flags.BoolVar(&f.events, "events", false, "Enable events")
	flags.Float64Var(&f.price, "price", 0, "Subscription price (0 for free)")
}

func newWorldsCreateCommand() *cobra.Command {
	var f worldFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a world",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireUser(cmd.Context(), app); err != nil {
				return err
			}

			world, err := app.Worlds.CreateWorld(cmd.Context(), web.WorldInput{
				Title:       f.title,
				Description: f.description,
				Slug:        f.slug,
				Domain:      f.domain,
				Theme:       web.WorldTheme{Color: f.color, Mode: f.mode},
				Features:    web.WorldFeatures{Chat: f.chat, Events: f.events},
				Pricing:     web.WorldPricing{Free: f.price == 0, Premium: f.price > 0, Price: f.price},
				Public:      f.public,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), world)
		},
	}
	f.bind(cmd)
	cmd.MarkFlagRequired("title")

	return cmd
}

func newWorldsUpdateCommand() *cobra.Command {
	var f worldFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireUser(cmd.Context(), app); err != nil {
				return err
			}

			flags := cmd.Flags()
			var patch web.WorldPatch
			if flags.Changed("title") {
				patch.Title = &f.title
			}
			if flags.Changed("description") {
				patch.Description = &f.description
			}
			if flags.Changed("slug") {
				patch.Slug = &f.slug
			}
			if flags.Changed("domain") {
				patch.Domain = &f.domain
			}
			if flags.Changed("public") {
				patch.Public = &f.public
			}

			world, err := app.Worlds.UpdateWorld(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated", world.ID, world.Slug)
			return nil
		},
	}
	f.bind(cmd)

	return cmd
}

func newWorldsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a world with its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireUser(cmd.Context(), app); err != nil {
				return err
			}
			if err := app.Worlds.DeleteWorld(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return nil
		},
	}
}
