package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
)

// resolveThrough runs a request through ResolveClaims and reports what
// the downstream handler observed.
func resolveThrough(t *testing.T, authorization string) (*auth.Claims, bool, int) {
	t.Helper()

	var (
		got *auth.Claims
		ok  bool
	)
	h := ResolveClaims(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ClaimsFromCtx(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, ok, rec.Code
}

func TestResolveClaimsValidBearer(t *testing.T) {
	token, err := auth.GenerateToken(3, "iya@lawlawdelights.ph", auth.RoleSeller, true)
	require.NoError(t, err)

	claims, ok, code := resolveThrough(t, "Bearer "+token)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, auth.RoleSeller, claims.Role)
	assert.True(t, claims.EmailVerified)
}

func TestResolveClaimsAnonymousWithoutToken(t *testing.T) {
	claims, ok, code := resolveThrough(t, "")
	assert.False(t, ok)
	assert.Nil(t, claims)
	assert.Equal(t, http.StatusOK, code)
}

func TestResolveClaimsGarbageTokenDegradesToAnonymous(t *testing.T) {
	claims, ok, code := resolveThrough(t, "Bearer not-a-token")
	assert.False(t, ok)
	assert.Nil(t, claims)
	assert.Equal(t, http.StatusOK, code, "a bad token must not surface an error")
}

func TestResolveClaimsExpiredTokenDegradesToAnonymous(t *testing.T) {
	expired := auth.Claims{
		UserID: 3, Email: "iya@lawlawdelights.ph", Role: auth.RoleUser,
		EmailVerified: true, TokenType: auth.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).
		SignedString([]byte(config.JWTSecret()))
	require.NoError(t, err)

	claims, ok, code := resolveThrough(t, "Bearer "+token)
	assert.False(t, ok)
	assert.Nil(t, claims)
	assert.Equal(t, http.StatusOK, code)
}

func TestResolveClaimsRejectsRefreshTokenAsBearer(t *testing.T) {
	refresh, err := auth.GenerateRefreshToken(3, "iya@lawlawdelights.ph", auth.RoleUser, true)
	require.NoError(t, err)

	_, ok, code := resolveThrough(t, "Bearer "+refresh)
	assert.False(t, ok)
	assert.Equal(t, http.StatusOK, code)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := WithClaims(httptest.NewRequest(http.MethodGet, "/orders", nil),
		&auth.Claims{UserID: 1, Role: auth.RoleUser, EmailVerified: true})
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireVerified(t *testing.T) {
	h := RequireVerified(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/checkout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := WithClaims(httptest.NewRequest(http.MethodGet, "/checkout", nil),
		&auth.Claims{UserID: 1, Role: auth.RoleUser, EmailVerified: false})
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = WithClaims(httptest.NewRequest(http.MethodGet, "/checkout", nil),
		&auth.Claims{UserID: 2, Role: auth.RoleAdmin, EmailVerified: false})
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "admins are exempt from verification")
}
