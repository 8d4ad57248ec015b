package controllers

import (
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/bind"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
)

// OtpController serves code issuance and verification for both
// channels.
type OtpController struct {
	otps *services.OtpService
	auth *services.AuthService
}

func NewOtpController() *OtpController {
	return &OtpController{
		otps: services.NewOtpService(),
		auth: services.NewAuthService(),
	}
}

type sendEmailOtpInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SendEmail issues a fresh email code, replacing any active one.
func (c *OtpController) SendEmail(w http.ResponseWriter, r *http.Request) {
	var in sendEmailOtpInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.otps.IssueEmail(in.Email); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "verification code sent"})
}

type verifyEmailOtpInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,integer,max=10"`
}

// VerifyEmail consumes the code. For pending registrations this also
// creates the account; for existing accounts it marks the address
// verified.
func (c *OtpController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in verifyEmailOtpInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.VerifyRegistration(in.Email, in.Code)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"message": "email verified",
		"user":    userOut(user),
	})
}

type sendPhoneOtpInput struct {
	Phone string `json:"phone" validate:"required,phone"`
}

// SendPhone issues a fresh phone code.
func (c *OtpController) SendPhone(w http.ResponseWriter, r *http.Request) {
	var in sendPhoneOtpInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.otps.IssuePhone(in.Phone); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "verification code sent"})
}

type verifyPhoneOtpInput struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code" validate:"required,integer,max=10"`
}

// VerifyPhone consumes the phone code.
func (c *OtpController) VerifyPhone(w http.ResponseWriter, r *http.Request) {
	var in verifyPhoneOtpInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	if err := c.otps.VerifyPhone(in.Phone, in.Code); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "phone verified"})
}
