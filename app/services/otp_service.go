package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/jobs"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/cache"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/crypt"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/metrics"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/queue"
)

// OtpService issues and verifies short-lived verification codes over
// two channels. Each subject holds at most one active code per
// channel; issuing replaces the previous code, verifying consumes it.
type OtpService struct {
	otps  *repositories.OtpRepository
	users *repositories.UserRepository
	now   func() time.Time
}

func NewOtpService() *OtpService {
	return &OtpService{
		otps:  repositories.NewOtpRepository(),
		users: repositories.NewUserRepository(),
		now:   time.Now,
	}
}

// IssueEmail generates a fresh code for the address and queues its
// delivery. The address must belong to an account or a pending
// registration, otherwise ErrNotFound.
func (s *OtpService) IssueEmail(email string) error {
	if !s.emailKnown(email) {
		return ErrNotFound
	}
	if err := s.throttle("email", email); err != nil {
		return err
	}

	code, err := generateCode(config.OtpCodeLength())
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	otp := &models.EmailOtp{
		Email:     email,
		CodeHash:  crypt.Hash(email + ":" + code),
		ExpiresAt: s.now().Add(config.OtpEmailTTL()).UTC(),
	}
	if err := s.otps.ReplaceEmail(otp); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	// Delivery rides the queue; a mail outage must not surface as an
	// issuance failure.
	if err := queue.Dispatch(&jobs.SendEmailOtp{To: email, Code: code}); err != nil {
		logger.Error("otp mail dispatch failed", "email", email, "error", err)
	}
	metrics.OtpIssuedTotal.WithLabelValues("email").Inc()
	return nil
}

// VerifyEmail checks a submitted code. Success consumes the code so a
// repeat submission fails with ErrNotFound.
func (s *OtpService) VerifyEmail(email, code string) error {
	otp, err := s.otps.FindEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.OtpVerifiedTotal.WithLabelValues("email", "not_found").Inc()
			return ErrNotFound
		}
		return err
	}
	if otp.Expired(s.now()) {
		metrics.OtpVerifiedTotal.WithLabelValues("email", "expired").Inc()
		return ErrOtpExpired
	}
	if !crypt.SecureCompare(otp.CodeHash, crypt.Hash(email+":"+code)) {
		metrics.OtpVerifiedTotal.WithLabelValues("email", "mismatch").Inc()
		return ErrOtpMismatch
	}
	if err := s.otps.ConsumeEmail(email); err != nil {
		return err
	}
	metrics.OtpVerifiedTotal.WithLabelValues("email", "ok").Inc()
	return nil
}

// IssuePhone generates a fresh code for the number. The number must
// belong to an account, otherwise ErrNotFound.
func (s *OtpService) IssuePhone(phone string) error {
	if !s.phoneKnown(phone) {
		return ErrNotFound
	}
	if err := s.throttle("phone", phone); err != nil {
		return err
	}

	code, err := generateCode(config.OtpCodeLength())
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	otp := &models.PhoneOtp{
		Phone:     phone,
		CodeHash:  crypt.Hash(phone + ":" + code),
		ExpiresAt: s.now().Add(config.OtpPhoneTTL()).UTC(),
	}
	if err := s.otps.ReplacePhone(otp); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if err := queue.Dispatch(&jobs.SendPhoneOtp{To: phone, Code: code}); err != nil {
		logger.Error("otp sms dispatch failed", "phone", phone, "error", err)
	}
	metrics.OtpIssuedTotal.WithLabelValues("phone").Inc()
	return nil
}

// VerifyPhone checks a submitted code against the number's active
// code.
func (s *OtpService) VerifyPhone(phone, code string) error {
	otp, err := s.otps.FindPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.OtpVerifiedTotal.WithLabelValues("phone", "not_found").Inc()
			return ErrNotFound
		}
		return err
	}
	if otp.Expired(s.now()) {
		metrics.OtpVerifiedTotal.WithLabelValues("phone", "expired").Inc()
		return ErrOtpExpired
	}
	if !crypt.SecureCompare(otp.CodeHash, crypt.Hash(phone+":"+code)) {
		metrics.OtpVerifiedTotal.WithLabelValues("phone", "mismatch").Inc()
		return ErrOtpMismatch
	}
	if err := s.otps.ConsumePhone(phone); err != nil {
		return err
	}
	metrics.OtpVerifiedTotal.WithLabelValues("phone", "ok").Inc()
	return nil
}

// SweepExpired removes stale code rows. Scheduled housekeeping only;
// verification never relies on it.
func (s *OtpService) SweepExpired() {
	removed, err := s.otps.SweepExpired(s.now().UTC())
	if err != nil {
		logger.Error("otp sweep failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Info("otp sweep removed expired codes", "count", removed)
	}
}

func (s *OtpService) emailKnown(email string) bool {
	if _, err := s.users.FindByEmail(email); err == nil {
		return true
	}
	_, err := s.users.FindPending(email)
	return err == nil
}

func (s *OtpService) phoneKnown(phone string) bool {
	_, err := s.users.FindByPhone(phone)
	return err == nil
}

func (s *OtpService) throttle(channel, subject string) error {
	key := fmt.Sprintf("otp:%s:%s", channel, subject)
	n, err := cache.Increment(key, config.OtpRateWindow())
	if err != nil {
		logger.Warn("otp rate counter unavailable", "error", err)
		return nil
	}
	if int(n) > config.OtpMaxRequests() {
		return ErrOtpThrottled
	}
	return nil
}

// generateCode draws length decimal digits from crypto/rand.
func generateCode(length int) (string, error) {
	if length < 4 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
