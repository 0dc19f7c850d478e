package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
)

type ContextKey string

const (
	identityContextKey ContextKey = "identity"
	resultsContextKey  ContextKey = "advancedResults"

	// TokenCookie carries the session token for browser clients.
	TokenCookie = "token"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// Authenticate resolves the request's token to a live user and attaches its
// identity. Any token problem is reported with the same message.
func Authenticate(users UserLookup, tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				utils.RespondError(w, utils.Unauthorized("Not authorized to access this route"))
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				utils.RespondError(w, utils.Unauthorized("Not authorized to access this route"))
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if appErr := utils.AsAppError(err); appErr.Kind == utils.KindServer {
					utils.RespondError(w, err)
					return
				}
				logrus.WithField("user_id", claims.UserID).Debug("token subject no longer exists")
				utils.RespondError(w, utils.Unauthorized("Not authorized to access this route"))
				return
			}

			identity := models.Identity{ID: user.ID, Role: user.Role}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// extractToken prefers the Authorization header over the cookie.
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFrom(r *http.Request) (models.Identity, bool) {
	identity, ok := r.Context().Value(identityContextKey).(models.Identity)
	return identity, ok
}

// Authorize must run after Authenticate.
func Authorize(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r)
			if !ok {
				utils.RespondError(w, utils.Unauthorized("Not authorized to access this route"))
				return
			}
			if !models.RoleAllowed(identity.Role, roles) {
				utils.RespondError(w, utils.Forbidden("User role %s is not authorized to access this route", identity.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
