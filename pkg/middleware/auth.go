// Package middleware provides the HTTP middleware chain for the
// marketplace: identity resolution, request logging, recovery, CORS, and
// per-IP rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/session"
)

type claimsKey struct{}

// ResolveClaims decodes the identity token (Authorization bearer header
// first, session cookie as fallback) and attaches the claims to the
// request context. A missing, malformed, or expired token is treated
// identically to no session: the request continues anonymous. Nothing here
// ever writes an error.
func ResolveClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := resolve(r); claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
		}
		next.ServeHTTP(w, r)
	})
}

func resolve(r *http.Request) *auth.Claims {
	if token := bearerToken(r); token != "" {
		if claims, err := auth.ValidateAccessToken(token); err == nil {
			return claims
		}
		return nil
	}

	sess := session.FromCtx(r)
	token, ok := sess.GetString("token")
	if !ok || token == "" {
		return nil
	}
	claims, err := auth.ValidateAccessToken(token)
	if err != nil {
		return nil
	}
	return claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests that carry no resolved claims with a 401.
// Wire ResolveClaims before it.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromCtx(r); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireVerified rejects authenticated-but-unverified identities with 403.
// Admin accounts are exempt, matching the access engine's precedence rule.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromCtx(r)
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !claims.EmailVerified && claims.Role != auth.RoleAdmin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromCtx returns the identity claims resolved for this request.
func ClaimsFromCtx(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// WithClaims injects claims into a request context; used by tests.
func WithClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
}

// UserIDFromCtx returns the authenticated user's ID.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	claims, ok := ClaimsFromCtx(r)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	claims, ok := ClaimsFromCtx(r)
	if !ok {
		return "", false
	}
	return claims.Role, true
}
