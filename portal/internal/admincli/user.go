package admincli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/config"
	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "user",
		Long: "Account management.",
	}
	cmd.AddCommand(NewAddCommand())
	cmd.AddCommand(NewResetPasswordCommand())
	cmd.AddCommand(NewSetPlanCommand())

	return cmd
}

type AddUserOptions struct {
	Email         string
	Name          string
	Password      string
	PasswordStdin bool
	Admin         bool
	Plan          string
}

type ResetPasswordOptions struct {
	Email         string
	Password      string
	PasswordStdin bool
}

type SetPlanOptions struct {
	Email string
	Plan  string
}

func NewAddCommand() *cobra.Command {
	var options AddUserOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer client.Close()

			user, err := RunAddUser(cmd.Context(), auth.NewBunUserRepository(client), cmd.InOrStdin(), options)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Email, "email", "e", "", "Email address")
	flags.StringVarP(&options.Name, "name", "n", "", "Display name")
	flags.StringVarP(&options.Password, "password", "p", "", "Password")
	flags.BoolVar(&options.PasswordStdin, "password-stdin", false, "Read password from stdin")
	flags.BoolVar(&options.Admin, "admin", false, "Grant the admin scope")
	flags.StringVar(&options.Plan, "plan", string(entity.PlanFree), "Subscription plan (free, pro, enterprise)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func NewResetPasswordCommand() *cobra.Command {
	var options ResetPasswordOptions

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset password for an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer client.Close()

			return RunResetPassword(cmd.Context(), auth.NewBunUserRepository(client), cmd.InOrStdin(), options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Email, "email", "e", "", "Email address")
	flags.StringVarP(&options.Password, "password", "p", "", "Password")
	flags.BoolVar(&options.PasswordStdin, "password-stdin", false, "Read password from stdin")
	cmd.MarkFlagRequired("email")

	return cmd
}

func NewSetPlanCommand() *cobra.Command {
	var options SetPlanOptions

	cmd := &cobra.Command{
		Use:   "set-plan",
		Short: "Change the subscription plan of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer client.Close()

			return RunSetPlan(cmd.Context(), auth.NewBunUserRepository(client), options)
		},
	}

	flags := cmd.Flags()

	flags.StringVarP(&options.Email, "email", "e", "", "Email address")
	flags.StringVar(&options.Plan, "plan", "", "Subscription plan (free, pro, enterprise)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("plan")

	return cmd
}

func createClient() (*bun.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.PostgresUser == "" || cfg.PostgresDB == "" {
		return nil, errors.New("database configuration is missing")
	}

	return db.NewClient(db.ConnOptions{
		Host:       cfg.PostgresAddress,
		Port:       cfg.PostgresPort,
		User:       cfg.PostgresUser,
		Password:   cfg.PostgresPassword,
		Database:   cfg.PostgresDB,
		SSLMode:    cfg.PostgresSSLMode,
		CACertPath: cfg.PostgresCACertPath,
	})
}

func readPasswordStdin(stdin io.Reader) (string, error) {
	r := bufio.NewReader(stdin)
	l, _, err := r.ReadLine()
	if err != nil {
		return "", err
	}
	return string(l), nil
}

func resolvePassword(stdin io.Reader, password string, fromStdin bool) (string, error) {
	if fromStdin {
		var err error
		password, err = readPasswordStdin(stdin)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
	}
	if !auth.IsAllowedPassword(password) {
		return "", auth.ErrPasswordRule
	}
	return password, nil
}

func parsePlan(plan string) (entity.Plan, error) {
	p := entity.Plan(plan)
	if !p.Valid() {
		return "", fmt.Errorf("unknown plan: %s", plan)
	}
	return p, nil
}

// RunAddUser creates both the account and its profile.
func RunAddUser(ctx context.Context, users auth.UserRepository, stdin io.Reader, options AddUserOptions) (*model.User, error) {
	email := auth.NormalizeEmail(options.Email)
	if !auth.IsValidEmail(email) {
		return nil, auth.ErrInvalidEmail
	}
	plan, err := parsePlan(options.Plan)
	if err != nil {
		return nil, err
	}
	password, err := resolvePassword(stdin, options.Password, options.PasswordStdin)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &model.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hashedPassword,
		Admin:     options.Admin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &model.User{
		ID:        account.ID,
		Email:     email,
		Name:      options.Name,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.InsertUser(ctx, account, user); err != nil {
		return nil, err
	}

	return user, nil
}

func RunResetPassword(ctx context.Context, users auth.UserRepository, stdin io.Reader, options ResetPasswordOptions) error {
	password, err := resolvePassword(stdin, options.Password, options.PasswordStdin)
	if err != nil {
		return err
	}

	account, err := users.FindAccountByEmail(ctx, auth.NormalizeEmail(options.Email))
	if err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return users.UpdatePassword(ctx, account.ID, hashedPassword)
}

func RunSetPlan(ctx context.Context, users auth.UserRepository, options SetPlanOptions) error {
	plan, err := parsePlan(options.Plan)
	if err != nil {
		return err
	}

	account, err := users.FindAccountByEmail(ctx, auth.NormalizeEmail(options.Email))
	if err != nil {
		return err
	}

	user, err := users.FindProfile(ctx, account.ID)
	if err != nil {
		return err
	}
	user.Plan = plan
	user.UpdatedAt = time.Now().UTC()

	return users.UpdateProfile(ctx, user)
}
