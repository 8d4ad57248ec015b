package controllers

import (
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/bind"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/resource"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/session"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
)

// AuthController serves registration, login, and the profile.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{auth: services.NewAuthService()}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,confirmed"`
	// PasswordConfirmation backs the confirmed rule.
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// Register starts a signup: the account stays pending until the
// emailed code is verified.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.auth.Register(in.Name, in.Email, in.Password); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, map[string]string{
		"email":   in.Email,
		"message": "verification code sent",
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a token pair. The access token is
// also stored in the session for cookie-based clients.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Login(in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	if sess := session.FromCtx(r); sess != nil {
		sess.Set("token", pair.AccessToken)
		sess.Save(w)
	}

	response.Success(w, map[string]interface{}{
		"user":   userOut(user),
		"tokens": pair,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new pair.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Refresh(in.RefreshToken)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, pair)
}

// Logout drops the cookie session. Bearer clients simply discard
// their tokens.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromCtx(r); sess != nil {
		sess.Invalidate()
		sess.Save(w)
	}
	response.Success(w, map[string]string{"message": "logged out"})
}

// Profile returns the caller's own account.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.auth.Profile(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, userOut(user))
}

func userOut(u models.User) resource.Map {
	return resource.Map{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"phone":          u.Phone,
		"role":           u.Role,
		"email_verified": u.EmailVerified,
		"blocked":        u.Blocked,
		"address":        u.Address,
		"created_at":     u.CreatedAt,
	}
}
