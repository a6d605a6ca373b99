package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aiuniverse/universe/client/api"
	"github.com/aiuniverse/universe/client/store"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

type Config struct {
	PortalURL string `envconfig:"AIU_PORTAL_URL" default:"http://localhost:8000"`
	StatePath string `envconfig:"AIU_STATE_PATH"`
	Debug     bool   `envconfig:"AIU_DEBUG"`
}

// App wires the API client to the stores for one CLI invocation.
type App struct {
	Client *api.Client
	Auth   *store.AuthStore
	Worlds *store.WorldStore
	Events *store.EventStore
	Chat   *store.ChatStore
	Theme  *store.ThemeStore
}

func NewApp(cfg Config) (*App, error) {
	statePath := cfg.StatePath
	if statePath == "" {
		var err error
		statePath, err = store.DefaultStatePath()
		if err != nil {
			return nil, err
		}
	}
	persister := store.NewFilePersister(statePath)

	client := api.NewClient(cfg.PortalURL, nil)

	return &App{
		Client: client,
		Auth:   store.NewAuthStore(client, persister),
		Worlds: store.NewWorldStore(client),
		Events: store.NewEventStore(client),
		Chat: store.NewChatStore(func(ctx context.Context, worldID string) (store.ChatConn, error) {
			conn, err := client.DialChat(ctx, worldID)
			if err != nil {
				return nil, err
			}
			return conn, nil
		}),
		Theme: store.NewThemeStore(persister),
	}, nil
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *App {
	return cmd.Context().Value(appKey{}).(*App)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireUser restores the persisted session and fails when nobody is signed in.
func requireUser(ctx context.Context, app *App) error {
	if err := app.Auth.Restore(ctx); err != nil {
		return err
	}
	if app.Auth.State().User == nil {
		return errors.New("not signed in; run `aiu login` first")
	}
	return nil
}

func NewRootCommand() *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:           "aiu",
		Short:         "AI Universe client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := envconfig.Process("", &cfg); err != nil {
				return err
			}
			if flag := cmd.Flags().Lookup("portal"); flag != nil && flag.Changed {
				cfg.PortalURL = flag.Value.String()
			}

			logLevel := slog.LevelWarn
			if cfg.Debug {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})))

			app, err := NewApp(cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
			return nil
		},
	}

	cmd.PersistentFlags().String("portal", "", "Portal base URL (default $AIU_PORTAL_URL)")

	cmd.AddCommand(NewLoginCommand())
	cmd.AddCommand(NewSignUpCommand())
	cmd.AddCommand(NewLogoutCommand())
	cmd.AddCommand(NewWhoAmICommand())
	cmd.AddCommand(NewWorldsCommand())
	cmd.AddCommand(NewEventsCommand())
	cmd.AddCommand(NewChatCommand())
	cmd.AddCommand(NewThemeCommand())

	return cmd
}

func Execute() int {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
