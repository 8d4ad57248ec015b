package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/notifications"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/event"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/notification"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
)

var allowedPermitExt = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
}

// SellerService covers the seller onboarding flow: application with a
// permit document, admin review, and role promotion on approval.
type SellerService struct {
	sellers *repositories.SellerRepository
	users   *repositories.UserRepository
}

func NewSellerService() *SellerService {
	return &SellerService{
		sellers: repositories.NewSellerRepository(),
		users:   repositories.NewUserRepository(),
	}
}

// Apply files an application for the user. A user may hold only one
// application; re-applying after rejection resubmits it.
func (s *SellerService) Apply(userID uint, shopName string, permit *multipart.FileHeader) (models.SellerApplication, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return models.SellerApplication{}, ErrNotFound
	}
	if user.Role != auth.RoleUser {
		return models.SellerApplication{}, fmt.Errorf("%w: account already holds the %s role", ErrInvalid, user.Role)
	}

	existing, err := s.sellers.FindByUser(userID)
	switch {
	case err == nil && existing.Status == models.SellerApplicationPending:
		return models.SellerApplication{}, fmt.Errorf("%w: application already under review", ErrInvalid)
	case err == nil && existing.Status == models.SellerApplicationApproved:
		return models.SellerApplication{}, fmt.Errorf("%w: application already approved", ErrInvalid)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return models.SellerApplication{}, err
	}

	permitPath, err := s.storePermit(userID, permit)
	if err != nil {
		return models.SellerApplication{}, err
	}

	if existing.ID != 0 {
		// Rejected application being resubmitted.
		existing.ShopName = shopName
		existing.PermitPath = permitPath
		existing.Status = models.SellerApplicationPending
		existing.Reason = ""
		if err := s.sellers.Update(&existing); err != nil {
			return models.SellerApplication{}, err
		}
		return existing, nil
	}

	application := models.SellerApplication{
		UserID:     userID,
		ShopName:   shopName,
		PermitPath: permitPath,
		Status:     models.SellerApplicationPending,
	}
	if err := s.sellers.Create(&application); err != nil {
		return models.SellerApplication{}, err
	}

	event.Fire("seller.applied", application)
	return application, nil
}

// Status returns the user's own application.
func (s *SellerService) Status(userID uint) (models.SellerApplication, error) {
	application, err := s.sellers.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SellerApplication{}, ErrNotFound
		}
		return models.SellerApplication{}, err
	}
	return application, nil
}

// PendingReview returns one page of applications for the admin queue.
func (s *SellerService) PendingReview(status string, page, limit int) ([]models.SellerApplication, orm.Pagination, error) {
	return s.sellers.ByStatus(status, page, limit)
}

// Approve promotes the applicant to the seller role and notifies
// them. Admin surface.
func (s *SellerService) Approve(applicationID uint) (models.SellerApplication, error) {
	application, err := s.load(applicationID)
	if err != nil {
		return models.SellerApplication{}, err
	}
	if application.Status == models.SellerApplicationApproved {
		return application, nil
	}

	user, err := s.users.FindByID(application.UserID)
	if err != nil {
		return models.SellerApplication{}, ErrNotFound
	}

	application.Status = models.SellerApplicationApproved
	application.Reason = ""
	user.Role = auth.RoleSeller

	err = orm.Transaction(func(tx *orm.Query) error {
		if err := tx.Save(&application); err != nil {
			return err
		}
		return tx.Save(&user)
	})
	if err != nil {
		return models.SellerApplication{}, err
	}

	notification.SendAsync(notifications.SellerReviewed{
		User:     user,
		ShopName: application.ShopName,
		Approved: true,
	})
	return application, nil
}

// Reject declines the application with a reason and notifies the
// applicant. Admin surface.
func (s *SellerService) Reject(applicationID uint, reason string) (models.SellerApplication, error) {
	application, err := s.load(applicationID)
	if err != nil {
		return models.SellerApplication{}, err
	}

	application.Status = models.SellerApplicationRejected
	application.Reason = reason
	if err := s.sellers.Update(&application); err != nil {
		return models.SellerApplication{}, err
	}

	user, err := s.users.FindByID(application.UserID)
	if err == nil {
		notification.SendAsync(notifications.SellerReviewed{
			User:     user,
			ShopName: application.ShopName,
			Approved: false,
			Reason:   reason,
		})
	}
	return application, nil
}

func (s *SellerService) load(id uint) (models.SellerApplication, error) {
	application, err := s.sellers.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SellerApplication{}, ErrNotFound
		}
		return models.SellerApplication{}, err
	}
	return application, nil
}

func (s *SellerService) storePermit(userID uint, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", fmt.Errorf("%w: permit document required", ErrInvalid)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedPermitExt[ext] {
		return "", fmt.Errorf("%w: unsupported permit type %s", ErrInvalid, ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	path := fmt.Sprintf("permits/%d/%s%s", userID, uuid.NewString(), ext)
	if err := storage.PutStream(path, file); err != nil {
		return "", fmt.Errorf("store permit: %w", err)
	}
	return path, nil
}
