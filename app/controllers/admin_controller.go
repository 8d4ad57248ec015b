package controllers

import (
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/bind"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/resource"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
)

// AdminController covers user administration and the dashboard stats.
type AdminController struct {
	admin *services.AdminService
}

func NewAdminController() *AdminController {
	return &AdminController{admin: services.NewAdminService()}
}

// Users lists accounts, optionally filtered by role.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, pagination, err := c.admin.Users(r.URL.Query().Get("role"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(users, userOut), pagination)
}

type roleInput struct {
	Role string `json:"role" validate:"required,in=user,seller,admin"`
}

// SetRole assigns a role to a user.
func (c *AdminController) SetRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	var in roleInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.admin.SetRole(id, in.Role, claims.UserID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, userOut(user))
}

type blockInput struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// SetBlocked toggles the account block flag.
func (c *AdminController) SetBlocked(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	var in blockInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}
	if in.Blocked == nil {
		response.ValidationError(w, map[string]string{"blocked": "The blocked field is required."})
		return
	}

	user, err := c.admin.SetBlocked(id, *in.Blocked, claims.UserID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, userOut(user))
}

type credentialsInput struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ResetCredentials overwrites a user's password.
func (c *AdminController) ResetCredentials(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	var in credentialsInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.admin.ResetCredentials(id, in.Password, claims.UserID); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.Map{"reset": true})
}

// Stats returns the dashboard counters.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.admin.Stats()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, stats)
}
