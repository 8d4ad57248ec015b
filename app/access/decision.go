package access

import (
	"net/url"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
)

// Decision is the outcome of an access check: let the request
// through, or redirect it elsewhere.
type Decision struct {
	Allow    bool
	Location string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(location string) Decision { return Decision{Location: location} }

// Decide applies the access rules in strict precedence order. claims
// is nil for anonymous callers. The rules, first match wins:
//
//  1. Logged-in, unverified, non-admin, on any route outside the
//     verification surface: redirect to /verify-otp with their email.
//  2. Logged-in and verified on the login/registration or
//     verification surface: redirect to /profile.
//  3. Anonymous on a protected route: redirect to /login carrying the
//     original path as callbackUrl.
//  4. Anonymous on the verification surface without an email query
//     param: redirect to /login.
//  5. Otherwise allow.
func Decide(claims *auth.Claims, tags RouteTags, path string, query url.Values) Decision {
	loggedIn := claims != nil

	if loggedIn && !claims.EmailVerified && claims.Role != auth.RoleAdmin && !tags.Otp {
		return redirect("/verify-otp?email=" + url.QueryEscape(claims.Email))
	}

	if loggedIn && claims.EmailVerified && (tags.Auth || tags.Otp) {
		return redirect("/profile")
	}

	if !loggedIn && tags.Protected {
		return redirect("/login?callbackUrl=" + url.QueryEscape(path))
	}

	if !loggedIn && tags.Otp && query.Get("email") == "" {
		return redirect("/login")
	}

	return allow()
}
