package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/SampritiSC2/react-proshop/internal/auth"
	"github.com/SampritiSC2/react-proshop/internal/domain"
	"github.com/SampritiSC2/react-proshop/internal/repository"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
	"github.com/SampritiSC2/react-proshop/pkg/httputil"
	"github.com/SampritiSC2/react-proshop/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user set by Protect, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	if u, ok := ctx.Value(userContextKey).(*domain.User); ok {
		return u
	}
	return nil
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Protect authenticates the request from the session cookie. The session
// token only carries the user ID; the account is loaded fresh on every
// request so deleted users and role changes take effect immediately.
func Protect(jwtManager *auth.JWTManager, userRepo repository.UserRepository, writer *httputil.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				writer.Error(w, r, apperrors.Unauthorized("Please authenticate"))
				return
			}

			claims, err := jwtManager.Validate(cookie.Value)
			if err != nil {
				writer.Error(w, r, apperrors.Unauthorized("Not authorized, invalid token"))
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				writer.Error(w, r, apperrors.Unauthorized("Not authorized, invalid token"))
				return
			}
			user.PasswordHash = ""

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = logger.WithUserID(ctx, user.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires that Protect ran earlier and the user is an admin.
func Admin(writer *httputil.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !user.IsAdmin {
				writer.Error(w, r, apperrors.Forbidden("Not authorized as admin"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
