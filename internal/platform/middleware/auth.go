package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	Subject string
	Role    string
}

// Context keys for storing authenticated caller information
type contextKeyAdminID struct{}
type contextKeyRole struct{}

// ContextKeyAdminID is exported for use in handlers
var (
	ContextKeyAdminID = contextKeyAdminID{}
	ContextKeyRole    = contextKeyRole{}
)

// GetAdminID retrieves the authenticated admin subject from the context
func GetAdminID(ctx context.Context) string {
	adminID, ok := ctx.Value(ContextKeyAdminID).(string)
	if !ok {
		return ""
	}
	return adminID
}

// GetRole retrieves the authenticated caller role from the context
func GetRole(ctx context.Context) string {
	role, ok := ctx.Value(ContextKeyRole).(string)
	if !ok {
		return ""
	}
	return role
}

// RequireAdmin guards the override and read surfaces. Only tokens carrying
// the admin role pass; everything else gets a uniform 401/403 so callers
// cannot probe which records exist.
func RequireAdmin(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			after, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeAuthError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(after)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if claims.Role != "admin" {
				logger.WarnContext(ctx, "forbidden - non-admin token on admin surface",
					"subject", claims.Subject,
					"request_id", requestID,
				)
				writeAuthError(w, http.StatusForbidden, "Admin role required")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyAdminID, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
