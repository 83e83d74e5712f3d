package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/utils"
)

type contextKey string

const userKey contextKey = "user"

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the user set by Auth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// UserIDFrom returns the authenticated user's id, or uuid.Nil.
func UserIDFrom(ctx context.Context) uuid.UUID {
	if user, ok := UserFrom(ctx); ok {
		return user.ID
	}
	return uuid.Nil
}

// Auth requires "Authorization: Bearer <token>" and puts the token's user in
// the request context. Rejected tokens answer 401. Any other verification
// failure, such as an unreachable database, answers 500.
func Auth(tokens TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
					Success: false,
					Message: "No token, authorization denied",
				})
				return
			}

			tokenStr, ok := bearerToken(header)
			if !ok {
				rejectToken(w)
				return
			}

			user, err := tokens.Verify(r.Context(), tokenStr)
			if err != nil {
				if apperr.GetCode(err) == apperr.CodeAuth {
					rejectToken(w)
					return
				}
				log.LogAttrs(r.Context(), slog.LevelError, "token verification failed",
					slog.String("path", r.URL.Path),
					slog.Any("err", err),
				)
				utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
					Success: false,
					Error:   "Server error",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func rejectToken(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Token is not valid",
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
