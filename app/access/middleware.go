package access

import (
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	pkgmw "github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
)

// Middleware runs the access rules on every request. It sits after
// the claims resolver in the chain so anonymous and authenticated
// callers both pass through it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := pkgmw.ClaimsFromCtx(r)
		tags := Classify(r.URL.Path)

		decision := Decide(claims, tags, r.URL.Path, r.URL.Query())
		if decision.Allow {
			next.ServeHTTP(w, r)
			return
		}

		logger.WithCtx(r.Context()).Debug("request redirected",
			"path", r.URL.Path, "location", decision.Location)
		response.Redirect(w, r, decision.Location)
	})
}
