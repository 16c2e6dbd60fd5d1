package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/receipthub/backend-receipt/internal/common"
	db "github.com/receipthub/backend-receipt/internal/db/gen"
	"github.com/receipthub/backend-receipt/internal/obs"
)

const (
	defaultAccessTTL = 30 * time.Minute
	defaultIssuer    = "backend-receipt"
	defaultAudience  = "receipthub"
)

// Queries is the subset of generated queries the auth service needs.
type Queries interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	GetUserByUsername(ctx context.Context, username string) (db.User, error)
	GetUserByID(ctx context.Context, id int64) (db.User, error)
}

// Service coordinates registration, credential checks and token handling.
type Service struct {
	queries  Queries
	tokens   Tokens
	validate *validator.Validate
	logger   zerolog.Logger
}

// Config configures the auth service.
type Config struct {
	Queries        Queries
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
	Validator      *validator.Validate
	Logger         *zerolog.Logger
}

// User represents the public view of an account.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput carries registration fields.
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required,max=50,fullname"`
	Username string `json:"username" validate:"required,max=20,username"`
	Password string `json:"password" validate:"required,min=6,strongpassword"`
}

// LoginResult bundles the issued access token and the authenticated user.
type LoginResult struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	AccessExpiry time.Time `json:"expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("auth: queries is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = defaultAudience
	}
	skew := cfg.ClockSkew
	if skew < 0 {
		skew = 0
	}
	v := cfg.Validator
	if v == nil {
		v = NewValidator()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Service{
		queries: cfg.Queries,
		tokens: Tokens{
			Secret:    []byte(secret),
			Issuer:    issuer,
			Audience:  audience,
			TTL:       ttl,
			ClockSkew: skew,
		},
		validate: v,
		logger:   logger,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.tokens.Now = now
	}
}

// Register validates the input, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return User{}, validationError(err)
	}

	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.queries.CreateUser(ctx, db.CreateUserParams{
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, common.NewAppError("USERNAME_TAKEN", "username is already taken", httpStatusConflict, err)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return toUser(created), nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		obs.ObserveLogin("rejected")
		return LoginResult{}, invalidCredentials()
	}

	dbUser, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().Err(err).Msg("load user for login")
		}
		obs.ObserveLogin("rejected")
		return LoginResult{}, invalidCredentials()
	}

	ok, err := argon2id.ComparePasswordAndHash(password, dbUser.PasswordHash)
	if err != nil || !ok {
		obs.ObserveLogin("rejected")
		return LoginResult{}, invalidCredentials()
	}

	token, expiry, err := s.tokens.Issue(dbUser.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	obs.ObserveLogin("success")
	return LoginResult{
		User:         toUser(dbUser),
		AccessToken:  token,
		AccessExpiry: expiry,
	}, nil
}

// Me fetches the current authenticated user.
func (s *Service) Me(ctx context.Context, userID int64) (User, error) {
	if userID <= 0 {
		return User{}, common.NewAppError("UNAUTHORIZED", "unauthorized", httpStatusUnauthorized, nil)
	}
	dbUser, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		return User{}, common.NewAppError("UNAUTHORIZED", "unauthorized", httpStatusUnauthorized, err)
	}
	return toUser(dbUser), nil
}

// ParseAccessToken validates an access token and returns the user id it was issued for.
func (s *Service) ParseAccessToken(token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, common.NewAppError("UNAUTHORIZED", "missing token", httpStatusUnauthorized, nil)
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return 0, common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	return id, nil
}

func invalidCredentials() *common.AppError {
	return common.NewAppError("INVALID_CREDENTIALS", "invalid username or password", httpStatusUnauthorized, nil)
}

func toUser(u db.User) User {
	var created time.Time
	if u.CreatedAt.Valid {
		created = u.CreatedAt.Time
	}
	return User{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: created,
	}
}

const httpStatusUnauthorized = 401
const httpStatusConflict = 409
const httpStatusUnprocessable = 422
