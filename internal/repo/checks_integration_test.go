//go:build integration
// +build integration

package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/receipthub/backend-receipt/internal/check"
	"github.com/receipthub/backend-receipt/internal/db"
	dbgen "github.com/receipthub/backend-receipt/internal/db/gen"
	"github.com/receipthub/backend-receipt/internal/repo"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("receipts"),
		postgres.WithUsername("receipts"),
		postgres.WithPassword("receipts"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.MigrateUp(dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestCheckRepoPostgres(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	q := dbgen.New(pool)

	owner, err := q.CreateUser(ctx, dbgen.CreateUserParams{Username: "ivan", FullName: "Іван Петренко", PasswordHash: "x"})
	require.NoError(t, err)
	other, err := q.CreateUser(ctx, dbgen.CreateUserParams{Username: "jane", FullName: "Jane Doe", PasswordHash: "x"})
	require.NoError(t, err)

	r := repo.NewCheckRepo(pool)
	nc := newCheck()
	nc.UserID = owner.ID
	created, err := r.Create(ctx, nc)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Іван Петренко", created.OwnerName)

	got, err := r.GetByID(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	require.True(t, got.Total.Equal(dec("91.00")))
	require.True(t, got.Rest.Equal(dec("9.00")))
	require.Len(t, got.Products, 2)
	require.Equal(t, "Bread", got.Products[0].Name)
	require.True(t, got.Products[0].Total.Equal(dec("51.00")))
	require.True(t, got.Products[0].Quantity.Equal(dec("2")))

	_, err = r.GetByID(ctx, created.ID, other.ID)
	require.ErrorIs(t, err, check.ErrNotFound)

	card := nc
	card.PaymentType = check.PaymentCard
	card.Total, card.PaymentAmount, card.Rest = dec("1500.00"), dec("1500.00"), dec("0")
	card.Products = []check.LineItem{{Name: "TV", Price: dec("1500.00"), Quantity: dec("1"), Total: dec("1500.00")}}
	_, err = r.Create(ctx, card)
	require.NoError(t, err)

	all, err := r.List(ctx, owner.ID, check.Filter{}, check.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "TV", all[0].Products[0].Name)

	minTotal := dec("100")
	n, err := r.Count(ctx, owner.ID, check.Filter{MinTotal: &minTotal})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	cash := check.PaymentCash
	filtered, err := r.List(ctx, owner.ID, check.Filter{PaymentType: &cash}, check.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, created.ID, filtered[0].ID)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	n, err = r.Count(ctx, owner.ID, check.Filter{CreatedFrom: &today, CreatedTo: &today})
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	n, err = r.Count(ctx, other.ID, check.Filter{})
	require.NoError(t, err)
	require.Zero(t, n)
}
