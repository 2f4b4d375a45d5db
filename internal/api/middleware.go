package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leca/fw-gallery/internal/model"
	"github.com/leca/fw-gallery/internal/password"
)

type contextKey string

const usernameKey contextKey = "username"

// AccountSource looks up the stored admin credential for basic auth.
type AccountSource interface {
	GetAccount(ctx context.Context, username string) (*model.Account, error)
}

// BasicAuth returns middleware that validates HTTP basic auth against
// the stored account. The authenticated username is placed in the
// request context.
func BasicAuth(accounts AccountSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, pass, ok := r.BasicAuth()
			if !ok {
				Unauthorized(w)
				return
			}
			acc, err := accounts.GetAccount(r.Context(), username)
			if err != nil || !password.Verify(pass, acc.PasswordHash) {
				Unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, acc.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername retrieves the authenticated username stored by BasicAuth.
func GetUsername(ctx context.Context) string {
	v, _ := ctx.Value(usernameKey).(string)
	return v
}

// RequestLogger logs each HTTP request with method, path, status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// Recoverer converts panics into a 500 error envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("error", rec).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				Internal(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
