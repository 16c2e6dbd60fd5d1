package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/receipthub/backend-receipt/internal/check"
	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/receipt"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestRootCommandsRegistered(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	require.True(t, names["migrate"])
	require.True(t, names["seed"])
	require.True(t, names["render"])
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	err := run(t, "migrate", "up")
	require.ErrorContains(t, err, "database URL is required")
}

func TestRenderValidatesArguments(t *testing.T) {
	require.ErrorContains(t, run(t, "render", "abc", "--user", "1"), "invalid check id")
	require.ErrorContains(t, run(t, "render", "1"), "required flag")
	require.ErrorContains(t, run(t, "render", "1", "--user", "1", "--width", "5"), "--width must be between")
	require.ErrorContains(t, run(t, "render", "1", "--user", "1", "--tz", "Nowhere/City"), "load timezone")
	require.ErrorContains(t, run(t, "render", "1", "--user", "1"), "database URL is required")
}

func TestSampleCheckIsValid(t *testing.T) {
	in := sampleCheck()
	require.NoError(t, common.NewValidator().Struct(in))
	require.Len(t, in.Products, 2)
	require.Equal(t, check.PaymentCash, in.Payment.Type)
}

func TestWriteReceipt(t *testing.T) {
	c := check.Check{
		ID:        1,
		OwnerName: "Demo Seller",
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Products: []check.LineItem{
			{Name: "Bread", Price: decimal.RequireFromString("25.50"), Quantity: decimal.NewFromInt(2), Total: decimal.RequireFromString("51.00")},
		},
		Total:         decimal.RequireFromString("51.00"),
		PaymentType:   check.PaymentCash,
		PaymentAmount: decimal.RequireFromString("60.00"),
		Rest:          decimal.RequireFromString("9.00"),
	}
	var buf bytes.Buffer
	require.NoError(t, writeReceipt(&buf, receipt.New(32, time.UTC), c))
	require.Contains(t, buf.String(), "Demo Seller")
	require.True(t, strings.HasSuffix(buf.String(), "\n"))
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		require.Len(t, []rune(line), 32)
	}
}
