package access

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
)

func anonymous() *auth.Claims { return nil }

func user(verified bool) *auth.Claims {
	return &auth.Claims{UserID: 1, Email: "buyer@example.com", Role: auth.RoleUser, EmailVerified: verified}
}

func seller(verified bool) *auth.Claims {
	return &auth.Claims{UserID: 2, Email: "seller@example.com", Role: auth.RoleSeller, EmailVerified: verified}
}

func admin(verified bool) *auth.Claims {
	return &auth.Claims{UserID: 3, Email: "admin@example.com", Role: auth.RoleAdmin, EmailVerified: verified}
}

func decide(claims *auth.Claims, path string) Decision {
	u, _ := url.Parse(path)
	return Decide(claims, Classify(u.Path), u.Path, u.Query())
}

func TestUnverifiedRedirectedToVerification(t *testing.T) {
	// Rule 1 fires everywhere except the verification surface, for
	// every non-admin role and every kind of route.
	paths := []string{"/", "/products", "/login", "/register", "/profile", "/orders/9", "/admin", "/unknown"}
	for _, path := range paths {
		for _, claims := range []*auth.Claims{user(false), seller(false)} {
			d := decide(claims, path)
			assert.False(t, d.Allow, "path %s role %s", path, claims.Role)
			assert.Equal(t, "/verify-otp?email="+url.QueryEscape(claims.Email), d.Location,
				"path %s role %s", path, claims.Role)
		}
	}
}

func TestUnverifiedAllowedOnVerificationSurface(t *testing.T) {
	d := decide(user(false), "/verify-otp?email=buyer%40example.com")
	assert.True(t, d.Allow)

	// Rule 1 is about the route, not the query; the logged-in caller's
	// own address carries the flow even without the param.
	d = decide(user(false), "/verify-otp")
	assert.True(t, d.Allow)
}

func TestUnverifiedAdminExempt(t *testing.T) {
	// Admins bypass rule 1 entirely.
	for _, path := range []string{"/", "/profile", "/admin/users", "/orders"} {
		d := decide(admin(false), path)
		assert.True(t, d.Allow, "path %s", path)
	}
}

func TestVerifiedBouncedOffAuthAndOtpRoutes(t *testing.T) {
	for _, claims := range []*auth.Claims{user(true), seller(true), admin(true)} {
		for _, path := range []string{"/login", "/register", "/verify-otp", "/verify-otp?email=x%40y.com"} {
			d := decide(claims, path)
			assert.False(t, d.Allow, "path %s role %s", path, claims.Role)
			assert.Equal(t, "/profile", d.Location, "path %s role %s", path, claims.Role)
		}
	}
}

func TestVerifiedAllowedElsewhere(t *testing.T) {
	for _, path := range []string{"/", "/products/ube", "/profile", "/orders/3", "/checkout", "/unknown"} {
		d := decide(user(true), path)
		assert.True(t, d.Allow, "path %s", path)
	}
}

func TestAnonymousProtectedRedirectsWithCallback(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/profile", "/login?callbackUrl=%2Fprofile"},
		{"/orders/42", "/login?callbackUrl=%2Forders%2F42"},
		{"/checkout", "/login?callbackUrl=%2Fcheckout"},
		{"/admin/users", "/login?callbackUrl=%2Fadmin%2Fusers"},
	}
	for _, tt := range tests {
		d := decide(anonymous(), tt.path)
		assert.False(t, d.Allow, tt.path)
		assert.Equal(t, tt.want, d.Location, tt.path)
	}
}

func TestAnonymousOtpNeedsEmailParam(t *testing.T) {
	d := decide(anonymous(), "/verify-otp")
	assert.False(t, d.Allow)
	assert.Equal(t, "/login", d.Location)

	d = decide(anonymous(), "/verify-otp?email=buyer%40example.com")
	assert.True(t, d.Allow)
}

func TestAnonymousAllowedOnPublicAndAuthRoutes(t *testing.T) {
	for _, path := range []string{"/", "/products", "/login", "/register", "/unknown"} {
		d := decide(anonymous(), path)
		assert.True(t, d.Allow, "path %s", path)
	}
}

// TestPrecedenceExhaustive walks every combination of route tags and
// caller state and checks that exactly the highest-priority applicable
// rule decides the outcome.
func TestPrecedenceExhaustive(t *testing.T) {
	type caller struct {
		name   string
		claims *auth.Claims
	}
	callers := []caller{
		{"anonymous", anonymous()},
		{"unverified-user", user(false)},
		{"unverified-admin", admin(false)},
		{"verified-user", user(true)},
		{"verified-admin", admin(true)},
	}

	// Every tag combination, realizable or not on real paths.
	for mask := 0; mask < 32; mask++ {
		tags := RouteTags{
			Public:    mask&1 != 0,
			Protected: mask&2 != 0,
			Auth:      mask&4 != 0,
			Otp:       mask&8 != 0,
			Admin:     mask&16 != 0,
		}
		for _, c := range callers {
			name := fmt.Sprintf("mask=%05b/%s", mask, c.name)
			t.Run(name, func(t *testing.T) {
				query := url.Values{}
				got := Decide(c.claims, tags, "/p", query)

				loggedIn := c.claims != nil
				switch {
				case loggedIn && !c.claims.EmailVerified && c.claims.Role != auth.RoleAdmin && !tags.Otp:
					assert.Equal(t, "/verify-otp?email="+url.QueryEscape(c.claims.Email), got.Location)
				case loggedIn && c.claims.EmailVerified && (tags.Auth || tags.Otp):
					assert.Equal(t, "/profile", got.Location)
				case !loggedIn && tags.Protected:
					assert.Equal(t, "/login?callbackUrl=%2Fp", got.Location)
				case !loggedIn && tags.Otp:
					assert.Equal(t, "/login", got.Location)
				default:
					assert.True(t, got.Allow)
				}
			})
		}
	}
}

// Rule 1 outranks rule 2: an unverified, logged-in caller on an auth
// route goes to verification, not to /profile.
func TestRuleOneBeatsRuleTwo(t *testing.T) {
	d := decide(user(false), "/login")
	assert.Equal(t, "/verify-otp?email=buyer%40example.com", d.Location)
}

// Rule 2 outranks nothing for anonymous callers; rule 3 only sees
// them. A verified caller on a route that is both Protected and Auth
// still lands on /profile.
func TestRuleTwoOnMixedTags(t *testing.T) {
	tags := RouteTags{Protected: true, Auth: true}
	d := Decide(user(true), tags, "/p", url.Values{})
	assert.Equal(t, "/profile", d.Location)
}
