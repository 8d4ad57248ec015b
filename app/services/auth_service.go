package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/event"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

// pendingTTL bounds how long an unverified signup may linger.
const pendingTTL = 24 * time.Hour

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService covers registration, email verification, and login.
type AuthService struct {
	users *repositories.UserRepository
	otps  *OtpService
}

func NewAuthService() *AuthService {
	return &AuthService{
		users: repositories.NewUserRepository(),
		otps:  NewOtpService(),
	}
}

// Register stores a pending registration and sends a verification
// code. The account row is only created once the code is verified.
func (s *AuthService) Register(name, email, password string) error {
	if _, err := s.users.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	pending := &models.PendingRegistration{
		Name:      name,
		Email:     email,
		Password:  hash,
		ExpiresAt: time.Now().Add(pendingTTL).UTC(),
	}
	if err := s.users.UpsertPending(pending); err != nil {
		return err
	}

	return s.otps.IssueEmail(email)
}

// VerifyRegistration consumes the emailed code and promotes the
// pending registration to a verified account.
func (s *AuthService) VerifyRegistration(email, code string) (models.User, error) {
	if err := s.otps.VerifyEmail(email, code); err != nil {
		return models.User{}, err
	}

	// An already-created account verifying a re-sent code.
	if user, err := s.users.FindByEmail(email); err == nil {
		if !user.EmailVerified {
			if err := s.users.MarkEmailVerified(email); err != nil {
				return models.User{}, err
			}
			user.EmailVerified = true
		}
		return user, nil
	}

	pending, err := s.users.FindPending(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	if time.Now().After(pending.ExpiresAt) {
		return models.User{}, ErrOtpExpired
	}

	user := models.User{
		Name:          pending.Name,
		Email:         pending.Email,
		Password:      pending.Password,
		Role:          auth.RoleUser,
		EmailVerified: true,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	if err := s.users.DeletePending(email); err != nil {
		logger.Warn("pending registration cleanup failed", "email", email, "error", err)
	}

	event.Fire("user.registered", user)
	return user, nil
}

// Login checks credentials and returns a token pair. Blocked accounts
// are rejected; unverified accounts log in but their claims carry
// EmailVerified=false, which the access layer acts on.
func (s *AuthService) Login(email, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrBadCredentials
		}
		return models.User{}, TokenPair{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrBadCredentials
	}
	if user.Blocked {
		return models.User{}, TokenPair{}, ErrBlocked
	}

	pair, err := s.tokensFor(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. Claims
// are re-read from the database so role or verification changes take
// effect.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	if user.Blocked {
		return TokenPair{}, ErrBlocked
	}
	return s.tokensFor(user)
}

// Profile returns the account behind a set of claims.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) tokensFor(user models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, user.Role, user.EmailVerified)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Email, user.Role, user.EmailVerified)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
