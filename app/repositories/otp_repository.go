package repositories

import (
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// OtpRepository handles active verification codes. At most one code
// per email address and one per phone number exists at a time:
// replacement happens inside a transaction so two concurrent requests
// cannot leave both codes live.
type OtpRepository struct{}

func NewOtpRepository() *OtpRepository {
	return &OtpRepository{}
}

// ReplaceEmail deletes any existing code for the address and inserts
// the new one atomically.
func (r *OtpRepository) ReplaceEmail(otp *models.EmailOtp) error {
	defer observe("email_otps.replace")()
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Gorm().Unscoped().
			Where("email = ?", otp.Email).
			Delete(&models.EmailOtp{}).Error; err != nil {
			return err
		}
		return tx.Create(otp)
	})
}

// FindEmail returns the active code row for the address, expired or
// not. Expiry is judged by the caller at verification time.
func (r *OtpRepository) FindEmail(email string) (models.EmailOtp, error) {
	defer observe("email_otps.find")()
	var otp models.EmailOtp
	err := orm.DB().Model(&models.EmailOtp{}).Where("email = ?", email).First(&otp)
	return otp, err
}

// ConsumeEmail hard-deletes the row so the code is single use.
func (r *OtpRepository) ConsumeEmail(email string) error {
	defer observe("email_otps.consume")()
	return orm.DB().Gorm().Unscoped().
		Where("email = ?", email).
		Delete(&models.EmailOtp{}).Error
}

// ReplacePhone deletes any existing code for the number and inserts
// the new one atomically.
func (r *OtpRepository) ReplacePhone(otp *models.PhoneOtp) error {
	defer observe("phone_otps.replace")()
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Gorm().Unscoped().
			Where("phone = ?", otp.Phone).
			Delete(&models.PhoneOtp{}).Error; err != nil {
			return err
		}
		return tx.Create(otp)
	})
}

// FindPhone returns the active code row for the number.
func (r *OtpRepository) FindPhone(phone string) (models.PhoneOtp, error) {
	defer observe("phone_otps.find")()
	var otp models.PhoneOtp
	err := orm.DB().Model(&models.PhoneOtp{}).Where("phone = ?", phone).First(&otp)
	return otp, err
}

// ConsumePhone hard-deletes the row so the code is single use.
func (r *OtpRepository) ConsumePhone(phone string) error {
	defer observe("phone_otps.consume")()
	return orm.DB().Gorm().Unscoped().
		Where("phone = ?", phone).
		Delete(&models.PhoneOtp{}).Error
}

// SweepExpired hard-deletes codes whose window closed before cutoff.
// Verification never depends on this; it is housekeeping only.
func (r *OtpRepository) SweepExpired(cutoff time.Time) (int64, error) {
	defer observe("otps.sweep")()
	emailRes := orm.DB().Gorm().Unscoped().
		Where("expires_at < ?", cutoff).
		Delete(&models.EmailOtp{})
	if emailRes.Error != nil {
		return 0, emailRes.Error
	}
	phoneRes := orm.DB().Gorm().Unscoped().
		Where("expires_at < ?", cutoff).
		Delete(&models.PhoneOtp{})
	if phoneRes.Error != nil {
		return emailRes.RowsAffected, phoneRes.Error
	}
	return emailRes.RowsAffected + phoneRes.RowsAffected, nil
}
