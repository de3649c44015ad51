package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/tonzxz12/Findr-sub000/internal/container"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

func main() {
	var baseURL string

	cmd := &cobra.Command{
		Use:          "session-token <email>",
		Short:        "Issue a session token for an existing user",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return issue(cmd.Context(), args[0], baseURL)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL used in the example request")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func issue(ctx context.Context, email, baseURL string) error {
	var (
		authSvc  services.AuthenticationService
		userRepo repositories.UserRepository
	)

	app := fx.New(
		container.Infrastructure,
		fx.Provide(repositories.NewUserRepository),
		fx.Provide(repositories.NewClientRepository),
		fx.Provide(services.NewAuthenticationService),
		fx.Populate(&authSvc, &userRepo),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer app.Stop(context.Background())

	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", email, err)
	}
	if !user.IsActive {
		return fmt.Errorf("user %q is deactivated", email)
	}

	token, expiresAt, err := authSvc.GenerateJWT(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	fmt.Printf("Session token for %s (expires %s):\n", email, expiresAt.Format(time.RFC3339))
	fmt.Printf("%s\n", token)
	fmt.Printf("\nExample request:\n")
	fmt.Printf("curl -H \"Authorization: Bearer %s\" -H \"X-Client-ID: <client id>\" %s/api/dashboard\n", token, baseURL)
	return nil
}
