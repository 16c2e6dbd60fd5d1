package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/receipthub/backend-receipt/internal/check"
	"github.com/receipthub/backend-receipt/internal/receipt"
	"github.com/receipthub/backend-receipt/internal/repo"
)

type renderFlags struct {
	userID   int64
	width    int
	timezone string
}

func newRenderCmd(opts *options) *cobra.Command {
	flags := renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <check-id>",
		Short: "Print a stored check as a plain-text receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || checkID <= 0 {
				return fmt.Errorf("invalid check id %q", args[0])
			}
			if err := flags.validate(); err != nil {
				return err
			}
			loc, err := time.LoadLocation(flags.timezone)
			if err != nil {
				return fmt.Errorf("load timezone: %w", err)
			}

			ctx := cmd.Context()
			pool, err := opts.pool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := check.NewService(repo.NewCheckRepo(pool))
			c, err := svc.Get(ctx, checkID, flags.userID)
			if err != nil {
				return err
			}
			return writeReceipt(cmd.OutOrStdout(), receipt.New(flags.width, loc), c)
		},
	}
	cmd.Flags().Int64Var(&flags.userID, "user", 0, "owner user id (required)")
	cmd.Flags().IntVar(&flags.width, "width", receipt.DefaultWidth, "line width in columns")
	cmd.Flags().StringVar(&flags.timezone, "tz", "UTC", "IANA time zone used for the printed date")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (f renderFlags) validate() error {
	if f.userID <= 0 {
		return fmt.Errorf("--user must be a positive user id")
	}
	if f.width < check.MinTextWidth || f.width > check.MaxTextWidth {
		return fmt.Errorf("--width must be between %d and %d", check.MinTextWidth, check.MaxTextWidth)
	}
	return nil
}

func writeReceipt(w io.Writer, r receipt.Renderer, c check.Check) error {
	_, err := io.WriteString(w, r.Render(c)+"\n")
	return err
}
