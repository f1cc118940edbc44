package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"star-admin-api/internal/session"
	"star-admin-api/pkg/apierror"

	"go.uber.org/zap"
)

const (
	// PrincipalKey is the context key for the verified token subject.
	PrincipalKey contextKey = "principal"

	// TokenKey is the context key for the raw bearer token.
	TokenKey contextKey = "token"
)

// PublicRoute is a request that skips authentication. An empty Method
// matches any method; a Path ending in "/" matches as a prefix.
type PublicRoute struct {
	Method string
	Path   string
}

func (p PublicRoute) matches(r *http.Request) bool {
	if p.Method != "" && p.Method != r.Method {
		return false
	}
	if strings.HasSuffix(p.Path, "/") && p.Path != "/" {
		return strings.HasPrefix(r.URL.Path, p.Path)
	}
	return r.URL.Path == p.Path
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Authority *session.Authority
	Public    []PublicRoute
	Logger    *zap.Logger
}

// NewAuthMiddleware verifies the bearer token on every request that is not
// public and stores the principal and raw token in the request context.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, route := range cfg.Public {
				if route.matches(r) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token, err := session.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, rejection(err))
				return
			}

			principal, err := cfg.Authority.Verify(r.Context(), token)
			if err != nil {
				log.Info("token rejected",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, rejection(err))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejection(err error) *apierror.Error {
	switch {
	case errors.Is(err, session.ErrMalformed):
		return apierror.Unauthorized("Authorization header missing or malformed.")
	case errors.Is(err, session.ErrRevoked):
		return apierror.Unauthorized("Token is invalid or blacklisted.")
	case errors.Is(err, session.ErrExpired):
		return apierror.Unauthorized("Token has expired.")
	case errors.Is(err, session.ErrInvalidSignature):
		return apierror.Unauthorized("Invalid or malformed token.")
	default:
		return apierror.InternalError("")
	}
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetPrincipal retrieves the verified token subject from context.
func GetPrincipal(ctx context.Context) *session.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*session.Principal); ok {
		return p
	}
	return nil
}

// GetToken retrieves the raw bearer token from context.
func GetToken(ctx context.Context) string {
	if t, ok := ctx.Value(TokenKey).(string); ok {
		return t
	}
	return ""
}
