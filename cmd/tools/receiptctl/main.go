package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/receipthub/backend-receipt/internal/obs"
)

type options struct {
	dbURL    string
	logLevel string
	logger   zerolog.Logger
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "receiptctl",
		Short:         "Operate the receipt backend database",
		Long:          "receiptctl applies schema migrations, seeds demo data and renders stored checks as plain-text receipts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger = obs.NewLogger("console", opts.logLevel)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.dbURL, "db", os.Getenv("DATABASE_URL"), "database connection URL (defaults to DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level")

	root.AddCommand(newMigrateCmd(opts), newSeedCmd(opts), newRenderCmd(opts))
	return root
}

func (o *options) requireDB() error {
	if strings.TrimSpace(o.dbURL) == "" {
		return fmt.Errorf("database URL is required: pass --db or set DATABASE_URL")
	}
	return nil
}

func (o *options) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if err := o.requireDB(); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, o.dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
