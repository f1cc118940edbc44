// Package session issues, verifies and revokes the bearer tokens presented by
// administrative principals.
//
// Tokens are HS256 JWTs and are never stored server-side. Logout is
// implemented by a RevocationStore consulted on every Verify. With the
// in-memory store, revocations live only as long as the process: after a
// restart a logged-out token validates again until its own expiry. Use the
// Redis store when more than one process serves traffic.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// SignupTTL is the lifetime of the token returned by signup.
	SignupTTL = 1 * time.Hour

	// LoginTTL is the lifetime of tokens returned by login and OTP verification.
	LoginTTL = 24 * time.Hour

	// RevocationTTL bounds how long a revoked token is remembered.
	RevocationTTL = 24 * time.Hour

	bearerPrefix = "Bearer "
)

var (
	// ErrMalformed is returned when no bearer token is present.
	ErrMalformed = errors.New("authorization header missing or malformed")

	// ErrRevoked is returned for a token that was logged out.
	ErrRevoked = errors.New("token is revoked")

	// ErrExpired is returned when the token's exp claim has passed.
	ErrExpired = errors.New("token has expired")

	// ErrInvalidSignature covers tampered, foreign and unparsable tokens.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrMissingSecret means the signing secret was not configured.
	ErrMissingSecret = errors.New("session: signing secret must be set")
)

// Principal identifies the administrator a token was issued to.
type Principal struct {
	ID     int64  `json:"id,omitempty"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

// IsZero reports whether p carries no identity at all.
func (p Principal) IsZero() bool {
	return p.ID == 0 && p.UserID == "" && p.Email == ""
}

// Claims is the JWT payload.
type Claims struct {
	Principal
	jwt.RegisteredClaims
}

// Authority is safe for concurrent use.
type Authority struct {
	secret  []byte
	revoked RevocationStore
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures an Authority.
type Option func(*Authority)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) { a.now = now }
}

// WithLogger sets the logger used for revocation events.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Authority) { a.logger = logger }
}

// NewAuthority returns an Authority signing with secret and consulting store
// for revocations. A missing secret or store is a startup error.
func NewAuthority(secret string, store RevocationStore, opts ...Option) (*Authority, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if store == nil {
		return nil, errors.New("session: revocation store must be set")
	}

	a := &Authority{
		secret:  []byte(secret),
		revoked: store,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Issue signs a token for p valid for ttl. It returns the token and its expiry.
func (a *Authority) Issue(p Principal, ttl time.Duration) (string, time.Time, error) {
	if p.IsZero() {
		return "", time.Time{}, errors.New("session: principal has no identity")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("session: invalid ttl %v", ttl)
	}

	now := a.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify returns the principal embedded in token. The revocation store is
// checked first so a logged-out token is reported as ErrRevoked even while
// its signature and expiry are still valid.
func (a *Authority) Verify(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrMalformed
	}

	revoked, err := a.revoked.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	_, err = parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidSignature
	}

	p := claims.Principal
	return &p, nil
}

// Revoke makes token unusable for RevocationTTL from now. Revoking the same
// token again keeps the first deadline.
func (a *Authority) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrMalformed
	}

	until := a.now().Add(RevocationTTL)
	if err := a.revoked.Revoke(ctx, token, until); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("token revoked", zap.Time("until", until))
	return nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformed
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", ErrMalformed
	}
	return token, nil
}
