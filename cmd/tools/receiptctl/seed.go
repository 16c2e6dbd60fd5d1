package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/receipthub/backend-receipt/internal/auth"
	"github.com/receipthub/backend-receipt/internal/check"
	"github.com/receipthub/backend-receipt/internal/common"
	dbgen "github.com/receipthub/backend-receipt/internal/db/gen"
	"github.com/receipthub/backend-receipt/internal/repo"
)

type seedFlags struct {
	username string
	fullName string
	password string
}

func newSeedCmd(opts *options) *cobra.Command {
	flags := seedFlags{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with a sample cash check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := opts.pool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			queries := dbgen.New(pool)
			userID, err := ensureUser(ctx, queries, flags)
			if err != nil {
				return err
			}

			svc := check.NewService(repo.NewCheckRepo(pool))
			svc.Logger = opts.logger
			created, err := svc.Create(ctx, userID, sampleCheck())
			if err != nil {
				return fmt.Errorf("create sample check: %w", err)
			}
			opts.logger.Info().
				Int64("user_id", userID).
				Int64("check_id", created.ID).
				Str("total", created.Total.StringFixed(2)).
				Msg("seed completed")
			fmt.Fprintf(cmd.OutOrStdout(), "user %d check %d\n", userID, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.username, "username", "demo", "demo account username")
	cmd.Flags().StringVar(&flags.fullName, "full-name", "Demo Seller", "demo account full name")
	cmd.Flags().StringVar(&flags.password, "password", "Demo123", "demo account password")
	return cmd
}

// ensureUser registers the demo account or reuses it when the username is taken.
func ensureUser(ctx context.Context, queries *dbgen.Queries, flags seedFlags) (int64, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "receiptctl-seed"
	}
	svc, err := auth.NewService(auth.Config{Queries: queries, Secret: secret})
	if err != nil {
		return 0, err
	}
	user, err := svc.Register(ctx, auth.RegisterInput{
		FullName: flags.fullName,
		Username: flags.username,
		Password: flags.password,
	})
	if err == nil {
		return user.ID, nil
	}
	if appErr, ok := common.AsAppError(err); !ok || appErr.Code != "USERNAME_TAKEN" {
		return 0, fmt.Errorf("register demo user: %w", err)
	}
	existing, err := queries.GetUserByUsername(ctx, flags.username)
	if err != nil {
		return 0, fmt.Errorf("load demo user: %w", err)
	}
	return existing.ID, nil
}

func sampleCheck() check.CreateInput {
	return check.CreateInput{
		Products: []check.LineItemInput{
			{Name: "Bread", Price: decimal.RequireFromString("25.50"), Quantity: decimal.NewFromInt(2)},
			{Name: "Milk", Price: decimal.RequireFromString("40.00"), Quantity: decimal.NewFromInt(1)},
		},
		Payment: check.Payment{Type: check.PaymentCash, Amount: decimal.RequireFromString("100.00")},
	}
}
