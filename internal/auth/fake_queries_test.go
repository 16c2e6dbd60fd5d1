package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/receipthub/backend-receipt/internal/db/gen"
)

type fakeQueries struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]db.User
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{users: make(map[int64]db.User)}
}

func (f *fakeQueries) CreateUser(_ context.Context, arg db.CreateUserParams) (db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == arg.Username {
			return db.User{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	f.nextID++
	u := db.User{
		ID:           f.nextID,
		Username:     arg.Username,
		FullName:     arg.FullName,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeQueries) GetUserByUsername(_ context.Context, username string) (db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return db.User{}, pgx.ErrNoRows
}

func (f *fakeQueries) GetUserByID(_ context.Context, id int64) (db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return db.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func newTestService(t interface{ Fatalf(string, ...any) }) (*Service, *fakeQueries) {
	queries := newFakeQueries()
	svc, err := NewService(Config{
		Queries:        queries,
		Secret:         "super-secret-key",
		AccessTokenTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, queries
}
