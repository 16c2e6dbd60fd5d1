package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/receipthub/backend-receipt/internal/check"
	dbgen "github.com/receipthub/backend-receipt/internal/db/gen"
)

// CheckQuerier defines the sqlc generated queries used by CheckRepo.
type CheckQuerier interface {
	InsertCheck(ctx context.Context, arg dbgen.InsertCheckParams) (dbgen.Check, error)
	InsertCheckProduct(ctx context.Context, arg dbgen.InsertCheckProductParams) error
	GetCheckForOwner(ctx context.Context, arg dbgen.GetCheckForOwnerParams) (dbgen.GetCheckForOwnerRow, error)
	ListChecksForOwner(ctx context.Context, arg dbgen.ListChecksForOwnerParams) ([]dbgen.ListChecksForOwnerRow, error)
	CountChecksForOwner(ctx context.Context, arg dbgen.CountChecksForOwnerParams) (int64, error)
	ListCheckProducts(ctx context.Context, checkIds []int64) ([]dbgen.ListCheckProductsRow, error)
}

// TxBeginner starts transactions; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// CheckRepo is the PostgreSQL implementation of check.Store.
type CheckRepo struct {
	DB TxBeginner
	Q  CheckQuerier
	// InTx binds queries to a transaction. Defaults to dbgen.New(tx).
	InTx func(tx pgx.Tx) CheckQuerier
}

var _ check.Store = (*CheckRepo)(nil)

// NewCheckRepo wires a CheckRepo over a connection pool.
func NewCheckRepo(pool *pgxpool.Pool) *CheckRepo {
	return &CheckRepo{DB: pool, Q: dbgen.New(pool)}
}

func (r *CheckRepo) txQueries(tx pgx.Tx) CheckQuerier {
	if r.InTx != nil {
		return r.InTx(tx)
	}
	return dbgen.New(tx)
}

// Create inserts the check header and its products in a single transaction.
func (r *CheckRepo) Create(ctx context.Context, nc check.NewCheck) (check.Check, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return check.Check{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	qtx := r.txQueries(tx)
	header, err := qtx.InsertCheck(ctx, dbgen.InsertCheckParams{
		UserID:        nc.UserID,
		Total:         nc.Total,
		PaymentType:   string(nc.PaymentType),
		PaymentAmount: nc.PaymentAmount,
		Rest:          nc.Rest,
	})
	if err != nil {
		return check.Check{}, fmt.Errorf("insert check: %w", err)
	}
	for i, p := range nc.Products {
		if err := qtx.InsertCheckProduct(ctx, dbgen.InsertCheckProductParams{
			CheckID:  header.ID,
			Position: int32(i),
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Total:    p.Total,
		}); err != nil {
			return check.Check{}, fmt.Errorf("insert check product %d: %w", i, err)
		}
	}
	stored, err := qtx.GetCheckForOwner(ctx, dbgen.GetCheckForOwnerParams{ID: header.ID, UserID: nc.UserID})
	if err != nil {
		return check.Check{}, fmt.Errorf("reload check: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return check.Check{}, fmt.Errorf("commit tx: %w", err)
	}

	out := fromRow(checkRow(stored))
	out.Products = make([]check.LineItem, len(nc.Products))
	copy(out.Products, nc.Products)
	return out, nil
}

// GetByID loads one check with its products, scoped to ownerID.
func (r *CheckRepo) GetByID(ctx context.Context, checkID, ownerID int64) (check.Check, error) {
	row, err := r.Q.GetCheckForOwner(ctx, dbgen.GetCheckForOwnerParams{ID: checkID, UserID: ownerID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return check.Check{}, check.ErrNotFound
		}
		return check.Check{}, fmt.Errorf("get check: %w", err)
	}
	checks := []check.Check{fromRow(checkRow(row))}
	if err := r.attachProducts(ctx, checks); err != nil {
		return check.Check{}, err
	}
	return checks[0], nil
}

// List returns a page of the owner's checks, newest first, with products attached.
func (r *CheckRepo) List(ctx context.Context, ownerID int64, f check.Filter, p check.Page) ([]check.Check, error) {
	args := filterArgs(ownerID, f)
	rows, err := r.Q.ListChecksForOwner(ctx, dbgen.ListChecksForOwnerParams{
		UserID:        args.UserID,
		CreatedFrom:   args.CreatedFrom,
		CreatedBefore: args.CreatedBefore,
		MinTotal:      args.MinTotal,
		MaxTotal:      args.MaxTotal,
		PaymentType:   args.PaymentType,
		LimitValue:    int32(p.Limit),
		OffsetValue:   int32(p.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	checks := make([]check.Check, 0, len(rows))
	for _, row := range rows {
		checks = append(checks, fromRow(checkRow(row)))
	}
	if err := r.attachProducts(ctx, checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// Count returns how many of the owner's checks match f.
func (r *CheckRepo) Count(ctx context.Context, ownerID int64, f check.Filter) (int64, error) {
	n, err := r.Q.CountChecksForOwner(ctx, filterArgs(ownerID, f))
	if err != nil {
		return 0, fmt.Errorf("count checks: %w", err)
	}
	return n, nil
}

// attachProducts loads products for every check with one query.
func (r *CheckRepo) attachProducts(ctx context.Context, checks []check.Check) error {
	if len(checks) == 0 {
		return nil
	}
	ids := make([]int64, len(checks))
	for i, c := range checks {
		ids[i] = c.ID
	}
	rows, err := r.Q.ListCheckProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("list check products: %w", err)
	}
	byCheck := make(map[int64][]check.LineItem, len(checks))
	for _, row := range rows {
		byCheck[row.CheckID] = append(byCheck[row.CheckID], check.LineItem{
			Name:     row.Name,
			Price:    row.Price,
			Quantity: row.Quantity,
			Total:    row.Total,
		})
	}
	for i := range checks {
		products := byCheck[checks[i].ID]
		if products == nil {
			products = []check.LineItem{}
		}
		checks[i].Products = products
	}
	return nil
}

func filterArgs(ownerID int64, f check.Filter) dbgen.CountChecksForOwnerParams {
	args := dbgen.CountChecksForOwnerParams{
		UserID:        ownerID,
		CreatedFrom:   f.CreatedFrom,
		CreatedBefore: f.CreatedBefore(),
		MinTotal:      nullDecimal(f.MinTotal),
		MaxTotal:      nullDecimal(f.MaxTotal),
	}
	if f.PaymentType != nil {
		pt := string(*f.PaymentType)
		args.PaymentType = &pt
	}
	return args
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// checkRow is the column set shared by the single and list check queries.
type checkRow struct {
	ID            int64
	UserID        int64
	OwnerName     string
	Total         decimal.Decimal
	PaymentType   string
	PaymentAmount decimal.Decimal
	Rest          decimal.Decimal
	CreatedAt     pgtype.Timestamptz
}

func fromRow(row checkRow) check.Check {
	return check.Check{
		ID:            row.ID,
		UserID:        row.UserID,
		OwnerName:     row.OwnerName,
		CreatedAt:     row.CreatedAt.Time,
		Total:         row.Total,
		PaymentType:   check.PaymentType(row.PaymentType),
		PaymentAmount: row.PaymentAmount,
		Rest:          row.Rest,
	}
}
