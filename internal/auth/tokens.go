package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Tokens issues and verifies HS256 access tokens whose subject is the user id.
type Tokens struct {
	Secret    []byte
	Issuer    string
	Audience  string
	TTL       time.Duration
	ClockSkew time.Duration
	Now       func() time.Time
}

func (t Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue signs a token for userID and returns it with its expiry.
func (t Tokens) Issue(userID int64) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.TTL)
	builder := jwt.NewBuilder().
		Subject(strconv.FormatInt(userID, 10)).
		IssuedAt(now).
		NotBefore(now.Add(-t.ClockSkew)).
		Expiration(expiresAt)
	if t.Issuer != "" {
		builder = builder.Issuer(t.Issuer)
	}
	if t.Audience != "" {
		builder = builder.Audience([]string{t.Audience})
	}
	tok, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, t.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

// Parse verifies signature, algorithm, issuer, audience and expiry, and returns the user id.
func (t Tokens) Parse(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("auth: empty token")
	}
	if err := requireHS256(raw); err != nil {
		return 0, err
	}
	options := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, t.Secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	}
	if t.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(t.ClockSkew))
	}
	if t.Issuer != "" {
		options = append(options, jwt.WithIssuer(t.Issuer))
	}
	if t.Audience != "" {
		options = append(options, jwt.WithAudience(t.Audience))
	}
	tok, err := jwt.ParseString(raw, options...)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(tok.Subject(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("auth: invalid subject %q", tok.Subject())
	}
	return id, nil
}

func requireHS256(raw string) error {
	msg, err := jws.ParseString(raw)
	if err != nil {
		return err
	}
	sigs := msg.Signatures()
	if len(sigs) != 1 {
		return errors.New("auth: expected exactly one signature")
	}
	headers := sigs[0].ProtectedHeaders()
	if headers == nil {
		return errors.New("auth: token missing protected headers")
	}
	if alg := headers.Algorithm(); alg != jwa.HS256 {
		return fmt.Errorf("auth: unexpected token algorithm %q", alg)
	}
	return nil
}
