package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/spf13/cobra"
)

func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "events",
		Long: "Browse and manage world events.",
	}
	cmd.AddCommand(newEventsListCommand())
	cmd.AddCommand(newEventsCreateCommand())
	cmd.AddCommand(newEventsDeleteCommand())

	return cmd
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func newEventsListCommand() *cobra.Command {
	var worldID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally of one world",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := app.Events.FetchEvents(cmd.Context(), worldID); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tTITLE\tSTART\tWORLD")
			for _, event := range app.Events.State().Events {
				world := event.WorldID
				if event.World != nil {
					world = event.World.Title
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", event.ID, event.EventType, event.Title, formatTime(event.StartTime), world)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&worldID, "world", "w", "", "World ID")

	return cmd
}

func newEventsCreateCommand() *cobra.Command {
	var (
		input     web.EventInput
		eventType string
		start     string
		end       string
	)

	parse := func(value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("times must be RFC 3339: %w", err)
		}
		return &t, nil
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event in a world you own",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireUser(cmd.Context(), app); err != nil {
				return err
			}

			var err error
			if input.StartTime, err = parse(start); err != nil {
				return err
			}
			if input.EndTime, err = parse(end); err != nil {
				return err
			}
			input.EventType = entity.EventType(eventType)

			event, err := app.Events.CreateEvent(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), event)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input.WorldID, "world", "w", "", "World ID")
	flags.StringVarP(&input.Title, "title", "t", "", "Title")
	flags.StringVar(&input.Description, "description", "", "Description")
	flags.StringVar(&eventType, "type", string(entity.EventMeetup), "meetup, workshop or conference")
	flags.StringVar(&start, "start", "", "Start time (RFC 3339)")
	flags.StringVar(&end, "end", "", "End time (RFC 3339)")
	flags.Float64Var(&input.TicketPrice, "price", 0, "Ticket price")
	cmd.MarkFlagRequired("world")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newEventsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := requireUser(cmd.Context(), app); err != nil {
				return err
			}
			if err := app.Events.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return nil
		},
	}
}
