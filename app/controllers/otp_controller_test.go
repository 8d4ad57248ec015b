package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/crypt"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
)

func verifyEmailRequest(email, code string) *http.Request {
	body := `{"email":"` + email + `","code":"` + code + `"}`
	req := httptest.NewRequest(http.MethodPost, "/verify-otp/email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func plantEmailCode(t *testing.T, email, code string) {
	t.Helper()
	require.NoError(t, database.DB.Create(&models.EmailOtp{
		Email:     email,
		CodeHash:  crypt.Hash(email + ":" + code),
		ExpiresAt: time.Now().Add(5 * time.Minute).UTC(),
	}).Error)
}

// Code length follows OTP_CODE_LENGTH, so the boundary must not pin a
// particular digit count.
func TestVerifyEmailAcceptsConfiguredCodeLength(t *testing.T) {
	setupDB(t)
	t.Setenv("OTP_CODE_LENGTH", "8")
	user := seedUser(t, "buyer@lawlaw.test", auth.RoleUser, false)
	plantEmailCode(t, user.Email, "12345678")
	ctrl := NewOtpController()

	rec := httptest.NewRecorder()
	ctrl.VerifyEmail(rec, verifyEmailRequest(user.Email, "12345678"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified models.User
	require.NoError(t, database.DB.First(&verified, user.ID).Error)
	assert.True(t, verified.EmailVerified)
}

func TestVerifyEmailRejectsNonNumericCode(t *testing.T) {
	setupDB(t)
	user := seedUser(t, "buyer@lawlaw.test", auth.RoleUser, false)
	ctrl := NewOtpController()

	rec := httptest.NewRecorder()
	ctrl.VerifyEmail(rec, verifyEmailRequest(user.Email, "12a456"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	setupDB(t)
	user := seedUser(t, "buyer@lawlaw.test", auth.RoleUser, false)
	plantEmailCode(t, user.Email, "123456")
	ctrl := NewOtpController()

	rec := httptest.NewRecorder()
	ctrl.VerifyEmail(rec, verifyEmailRequest(user.Email, "654321"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
