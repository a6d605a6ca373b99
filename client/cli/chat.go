package cli

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

func NewChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <world-id>",
		Short: "Chat in a world; one line per message, EOF to leave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			ctx := cmd.Context()
			worldID := args[0]

			if err := app.Auth.Restore(ctx); err != nil {
				return err
			}
			var userID string
			if user := app.Auth.State().User; user != nil {
				userID = user.ID
			}

			if err := app.Chat.Connect(ctx, worldID); err != nil {
				return err
			}
			defer app.Chat.Disconnect()

			out := cmd.OutOrStdout()
			var (
				mu      sync.Mutex
				printed int
				typing  bool
			)
			unsubscribe := app.Chat.Subscribe(func() {
				state := app.Chat.State()

				mu.Lock()
				defer mu.Unlock()
				for ; printed < len(state.Messages); printed++ {
					message := state.Messages[printed]
					if message.UserID != "" && message.UserID == userID {
						continue
					}
					fmt.Fprintf(out, "[%s] %s\n", message.Role, message.Content)
				}
				if printed > len(state.Messages) {
					printed = len(state.Messages)
				}
				if state.Typing && !typing {
					fmt.Fprintln(out, "... typing")
				}
				typing = state.Typing
			})
			defer unsubscribe()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if !app.Chat.State().Connected {
					return fmt.Errorf("connection to %s closed", worldID)
				}
				if _, err := app.Chat.Send(line, worldID, userID); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}
