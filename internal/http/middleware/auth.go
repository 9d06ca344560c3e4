package middleware

import (
	"context"
	"net/http"
	"strings"

	"gradglow/internal/common"
	"gradglow/internal/domain/session"
	"gradglow/internal/domain/user"
	"gradglow/internal/http/response"
	"gradglow/internal/security"
)

type contextKey string

const contextSessionKey contextKey = "session"

type AuthMiddleware struct {
	jwt   *security.JWTProvider
	users user.Repository
}

func NewAuthMiddleware(jwt *security.JWTProvider, users user.Repository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// Authenticate resolves the bearer token to a full session value. The profile
// row, not the token claims, decides the role the request acts under.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		userID, err := common.ParseUUID(claims.Sub)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user id", err))
			return
		}
		account, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				response.Error(w, common.NewError(common.CodeUnauthorized, "profile not found", nil))
				return
			}
			response.Error(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), contextSessionKey, session.ForUser(account))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireStudent(next http.Handler) http.Handler {
	return requireSession(next, func(s session.Session) bool {
		_, ok := s.(session.Student)
		return ok
	})
}

func RequireRecruiter(next http.Handler) http.Handler {
	return requireSession(next, func(s session.Session) bool {
		_, ok := s.(session.Recruiter)
		return ok
	})
}

func requireSession(next http.Handler, allow func(session.Session) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok || !allow(s) {
			response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithSession returns ctx carrying s, the way Authenticate sets it.
func ContextWithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, contextSessionKey, s)
}

func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(contextSessionKey).(session.Session)
	return s, ok
}
