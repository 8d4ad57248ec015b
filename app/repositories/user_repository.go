package repositories

import (
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/metrics"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// UserRepository handles database operations for User and
// PendingRegistration.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	defer observe("users.find_by_email")()
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	defer observe("users.find_by_id")()
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// FindByPhone looks up a user by phone number.
func (r *UserRepository) FindByPhone(phone string) (models.User, error) {
	defer observe("users.find_by_phone")()
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("phone = ?", phone).First(&user)
	return user, err
}

// Create persists a new user row.
func (r *UserRepository) Create(user *models.User) error {
	defer observe("users.create")()
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	defer observe("users.update")()
	return orm.DB().Save(user)
}

// MarkEmailVerified flips the verified flag for the address.
func (r *UserRepository) MarkEmailVerified(email string) error {
	defer observe("users.mark_verified")()
	return orm.DB().Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"email_verified": true})
}

// All returns one page of users, optionally filtered by role.
func (r *UserRepository) All(role string, page, limit int) ([]models.User, orm.Pagination, error) {
	defer observe("users.all")()
	q := orm.DB().Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	pagination, err := q.Order("id DESC").GetWithPagination(&users, page, limit)
	return users, pagination, err
}

// CountByRole returns how many accounts hold each role.
func (r *UserRepository) CountByRole() (map[string]int64, error) {
	defer observe("users.count_by_role")()
	type row struct {
		Role  string
		Count int64
	}
	var rows []row
	err := orm.DB().Gorm().Model(&models.User{}).
		Select("role, COUNT(*) AS count").Group("role").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, r := range rows {
		out[r.Role] = r.Count
	}
	return out, nil
}

// FindPending looks up an unverified registration by email.
func (r *UserRepository) FindPending(email string) (models.PendingRegistration, error) {
	defer observe("pending_registrations.find")()
	var pending models.PendingRegistration
	err := orm.DB().Model(&models.PendingRegistration{}).Where("email = ?", email).First(&pending)
	return pending, err
}

// UpsertPending replaces any existing pending registration for the
// address with a fresh one.
func (r *UserRepository) UpsertPending(pending *models.PendingRegistration) error {
	defer observe("pending_registrations.upsert")()
	return orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Gorm().Unscoped().
			Where("email = ?", pending.Email).
			Delete(&models.PendingRegistration{}).Error; err != nil {
			return err
		}
		return tx.Create(pending)
	})
}

// DeletePending removes the pending registration for the address.
func (r *UserRepository) DeletePending(email string) error {
	defer observe("pending_registrations.delete")()
	return orm.DB().Gorm().Unscoped().
		Where("email = ?", email).
		Delete(&models.PendingRegistration{}).Error
}

func observe(operation string) func() {
	start := time.Now()
	return func() { metrics.ObserveDBQuery(operation, time.Since(start)) }
}
