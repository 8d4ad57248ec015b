// Package access decides, per request, whether to let the request
// through or redirect it, based on the caller's claims and the kind
// of route being hit.
package access

import "strings"

// RouteTags are the independent boolean classifications of a path.
// A path may carry several tags at once; each is computed on its own
// prefix list.
type RouteTags struct {
	// Public paths are reachable without an account.
	Public bool
	// Protected paths require a logged-in caller.
	Protected bool
	// Auth paths are the login/registration surface.
	Auth bool
	// Otp paths are the verification surface.
	Otp bool
	// Admin paths require the admin role.
	Admin bool
}

// Route prefix lists. Kept in one place so the classifier and the
// router stay in agreement.
var (
	publicPrefixes = []string{
		"/",
		"/products",
		"/categories",
		"/about",
		"/contact",
	}
	protectedPrefixes = []string{
		"/profile",
		"/checkout",
		"/orders",
		"/notifications",
		"/seller",
		"/admin",
	}
	authPrefixes = []string{
		"/login",
		"/register",
	}
	otpPrefixes = []string{
		"/verify-otp",
	}
	adminPrefixes = []string{
		"/admin",
	}
)

// Classify tags a path. Each tag is independent: /admin is both
// Protected and Admin.
func Classify(path string) RouteTags {
	return RouteTags{
		Public:    matchAny(path, publicPrefixes),
		Protected: matchAny(path, protectedPrefixes),
		Auth:      matchAny(path, authPrefixes),
		Otp:       matchAny(path, otpPrefixes),
		Admin:     matchAny(path, adminPrefixes),
	}
}

// matchAny reports whether path falls under any prefix. "/" matches
// only itself; other prefixes match exactly or at a "/" boundary, so
// "/orders" covers "/orders/7" but not "/ordersx".
func matchAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
