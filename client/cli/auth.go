package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aiuniverse/universe/client/store"
	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/spf13/cobra"
)

type LoginOptions struct {
	Email         string
	Password      string
	PasswordStdin bool
}

type SignUpOptions struct {
	LoginOptions
	Name      string
	AvatarURL string
}

func readPasswordStdin(stdin io.Reader) (string, error) {
	r := bufio.NewReader(stdin)
	l, _, err := r.ReadLine()
	if err != nil {
		return "", err
	}
	return string(l), nil
}

func (o *LoginOptions) password(cmd *cobra.Command) (string, error) {
	if o.PasswordStdin {
		return readPasswordStdin(cmd.InOrStdin())
	}
	return o.Password, nil
}

func (o *LoginOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.Email, "email", "e", "", "Email address")
	flags.StringVarP(&o.Password, "password", "p", "", "Password")
	flags.BoolVar(&o.PasswordStdin, "password-stdin", false, "Read password from stdin")
	cmd.MarkFlagRequired("email")
}

func printSession(cmd *cobra.Command, auth *store.AuthStore) {
	user := auth.State().User
	if user == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s, plan %s)\n", user.Email, user.ID, user.Plan)
}

func NewLoginCommand() *cobra.Command {
	var options LoginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			password, err := options.password(cmd)
			if err != nil {
				return err
			}
			if err := app.Auth.SignIn(cmd.Context(), options.Email, password); err != nil {
				return err
			}
			printSession(cmd, app.Auth)
			return nil
		},
	}
	options.bind(cmd)

	return cmd
}

func NewSignUpCommand() *cobra.Command {
	var options SignUpOptions

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			password, err := options.password(cmd)
			if err != nil {
				return err
			}
			if err := app.Auth.SignUp(cmd.Context(), options.Email, password, options.Name, options.AvatarURL); err != nil {
				return err
			}
			printSession(cmd, app.Auth)
			return nil
		},
	}
	options.bind(cmd)
	cmd.Flags().StringVarP(&options.Name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&options.AvatarURL, "avatar-url", "", "Avatar URL")

	return cmd
}

func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := app.Auth.Restore(cmd.Context()); err != nil {
				return err
			}
			return app.Auth.SignOut(cmd.Context())
		},
	}
}

func NewWhoAmICommand() *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, optionally changing the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if err := app.Auth.Restore(cmd.Context()); err != nil {
				return err
			}
			if plan != "" {
				p := entity.Plan(plan)
				if err := app.Auth.UpdateProfile(cmd.Context(), web.ProfileUpdate{Plan: &p}); err != nil {
					return err
				}
			}
			printSession(cmd, app.Auth)
			return nil
		},
	}
	cmd.Flags().StringVar(&plan, "set-plan", "", "Change the plan (free, pro, enterprise)")

	return cmd
}
