package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
)

func TestRegisterThenVerifyCreatesVerifiedAccount(t *testing.T) {
	setupDB(t)
	s := NewAuthService()

	require.NoError(t, s.Register("Maria", "maria@example.com", "secret-pass"))

	// No account exists until the code is verified.
	var users int64
	database.DB.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)

	plantEmailCode(t, s.otps, "maria@example.com", "123456", time.Now().Add(5*time.Minute))
	user, err := s.VerifyRegistration("maria@example.com", "123456")
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", user.Email)
	assert.Equal(t, auth.RoleUser, user.Role)
	assert.True(t, user.EmailVerified)

	// The pending row is gone.
	var pendings int64
	database.DB.Model(&models.PendingRegistration{}).Count(&pendings)
	assert.Zero(t, pendings)
}

func TestRegisterTakenEmail(t *testing.T) {
	setupDB(t)
	s := NewAuthService()
	seedUser(t, "maria@example.com", "", "user", true)

	assert.ErrorIs(t, s.Register("Maria", "maria@example.com", "secret-pass"), ErrEmailTaken)
}

func TestVerifyRegistrationWrongCode(t *testing.T) {
	setupDB(t)
	s := NewAuthService()
	require.NoError(t, s.Register("Maria", "maria@example.com", "secret-pass"))
	plantEmailCode(t, s.otps, "maria@example.com", "123456", time.Now().Add(5*time.Minute))

	_, err := s.VerifyRegistration("maria@example.com", "999999")
	assert.ErrorIs(t, err, ErrOtpMismatch)
}

func TestVerifyExistingUnverifiedAccount(t *testing.T) {
	setupDB(t)
	s := NewAuthService()
	seedUser(t, "maria@example.com", "", "user", false)
	plantEmailCode(t, s.otps, "maria@example.com", "123456", time.Now().Add(5*time.Minute))

	user, err := s.VerifyRegistration("maria@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)

	var reloaded models.User
	require.NoError(t, database.DB.Where("email = ?", "maria@example.com").First(&reloaded).Error)
	assert.True(t, reloaded.EmailVerified)
}

func TestLogin(t *testing.T) {
	setupDB(t)
	s := NewAuthService()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Name: "Maria", Email: "maria@example.com", Password: hash,
		Role: auth.RoleUser, EmailVerified: true,
	}).Error)

	user, pair, err := s.Login("maria@example.com", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, auth.RoleUser, claims.Role)
	assert.True(t, claims.EmailVerified)

	// Wrong password and unknown email return the same sentinel.
	_, _, err = s.Login("maria@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = s.Login("nobody@example.com", "secret-pass")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginBlocked(t *testing.T) {
	setupDB(t)
	s := NewAuthService()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Name: "Maria", Email: "maria@example.com", Password: hash,
		Role: auth.RoleUser, EmailVerified: true, Blocked: true,
	}).Error)

	_, _, err = s.Login("maria@example.com", "secret-pass")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestLoginUnverifiedCarriesFlagInClaims(t *testing.T) {
	setupDB(t)
	s := NewAuthService()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Name: "Maria", Email: "maria@example.com", Password: hash,
		Role: auth.RoleUser, EmailVerified: false,
	}).Error)

	_, pair, err := s.Login("maria@example.com", "secret-pass")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.False(t, claims.EmailVerified)
}

func TestRefreshReflectsBlockedAccount(t *testing.T) {
	setupDB(t)
	s := NewAuthService()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	user := models.User{
		Name: "Maria", Email: "maria@example.com", Password: hash,
		Role: auth.RoleUser, EmailVerified: true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	_, pair, err := s.Login("maria@example.com", "secret-pass")
	require.NoError(t, err)

	user.Blocked = true
	require.NoError(t, database.DB.Save(&user).Error)

	_, err = s.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	setupDB(t)
	s := NewAuthService()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Name: "Maria", Email: "maria@example.com", Password: hash,
		Role: auth.RoleUser, EmailVerified: true,
	}).Error)

	_, pair, err := s.Login("maria@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = s.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
