package middleware

import (
	"context"
	"net/http"
	"strings"

	"cleaning-hub/internal/data/entity"
	"cleaning-hub/internal/data/repository"
	"cleaning-hub/pkg/auth"
	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

// SessionCookie carries the signed session token for browser clients.
const SessionCookie = "session"

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type sessionResolver struct {
	sessions repository.SessionRepository
	secret   string
	log      *zap.Logger
}

// resolve returns a context carrying the session's user, or ok=false when
// the request has no valid session. err is set only for storage failures.
func (s sessionResolver) resolve(r *http.Request) (ctx context.Context, ok bool, err error) {
	raw := extractToken(r)
	if raw == "" {
		return nil, false, nil
	}

	claims, err := auth.ParseSessionToken(raw, s.secret)
	if err != nil {
		s.log.Debug("Rejected session token", zap.Error(err))
		return nil, false, nil
	}
	userID, _ := claims.UserID()

	session, err := s.sessions.FindValidSession(r.Context(), claims.SessionID)
	if err != nil {
		return nil, false, err
	}
	if session == nil || session.UserID != userID {
		s.log.Warn("Invalid or expired session", zap.String("user_id", userID.String()))
		return nil, false, nil
	}

	ctx = utils.SetUserContext(r.Context(), userID, claims.Role)
	ctx = utils.SetTokenContext(ctx, session.Token)
	return ctx, true, nil
}

// AuthSession requires a valid signed session token backed by a live session row.
func AuthSession(sessionRepo repository.SessionRepository, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	resolver := sessionResolver{sessions: sessionRepo, secret: secret, log: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok, err := resolver.resolve(r)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the user when a valid session is present and
// otherwise lets the request through anonymously.
func OptionalSession(sessionRepo repository.SessionRepository, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	resolver := sessionResolver{sessions: sessionRepo, secret: secret, log: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok, err := resolver.resolve(r)
			if err != nil {
				logger.Warn("Session lookup failed, continuing anonymously", zap.Error(err))
			}
			if ok {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin re-reads the role from storage on every request; the role claim in
// the token is never trusted for privileged routes.
func Admin(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Admin check: failed to get user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || user.Role != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
