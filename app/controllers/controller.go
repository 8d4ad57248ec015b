// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service, and translate the outcome onto the
// response envelope; no business rules live here.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
)

// fail maps service sentinels onto the error taxonomy. Unknown errors
// are logged and surface as an opaque 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrUnauthorized):
		response.Unauthorized(w)
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrBlocked):
		response.Error(w, http.StatusForbidden, services.ErrBlocked.Error())
	case errors.Is(err, services.ErrBadCredentials),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrOtpExpired),
		errors.Is(err, services.ErrOtpMismatch),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrBadStatus),
		errors.Is(err, services.ErrInvalid):
		response.BadRequest(w, err.Error())
	case errors.Is(err, services.ErrOtpThrottled):
		response.Error(w, http.StatusTooManyRequests, services.ErrOtpThrottled.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Internal(w)
	}
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page= and ?limit= with sane bounds.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 15
	}
	return page, limit
}
