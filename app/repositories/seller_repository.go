package repositories

import (
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// SellerRepository handles seller applications.
type SellerRepository struct{}

func NewSellerRepository() *SellerRepository {
	return &SellerRepository{}
}

// Create persists a new application.
func (r *SellerRepository) Create(application *models.SellerApplication) error {
	defer observe("seller_applications.create")()
	return orm.DB().Create(application)
}

// FindByID loads an application with its applicant.
func (r *SellerRepository) FindByID(id uint) (models.SellerApplication, error) {
	defer observe("seller_applications.find")()
	var application models.SellerApplication
	err := orm.DB().Model(&models.SellerApplication{}).Preload("User").
		Where("id = ?", id).First(&application)
	return application, err
}

// FindByUser loads a user's application if one exists.
func (r *SellerRepository) FindByUser(userID uint) (models.SellerApplication, error) {
	defer observe("seller_applications.find_by_user")()
	var application models.SellerApplication
	err := orm.DB().Model(&models.SellerApplication{}).
		Where("user_id = ?", userID).First(&application)
	return application, err
}

// Update persists changes to an application.
func (r *SellerRepository) Update(application *models.SellerApplication) error {
	defer observe("seller_applications.update")()
	return orm.DB().Save(application)
}

// ByStatus returns one page of applications in the given state.
func (r *SellerRepository) ByStatus(status string, page, limit int) ([]models.SellerApplication, orm.Pagination, error) {
	defer observe("seller_applications.by_status")()
	q := orm.DB().Model(&models.SellerApplication{}).Preload("User")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var applications []models.SellerApplication
	pagination, err := q.Order("id ASC").GetWithPagination(&applications, page, limit)
	return applications, pagination, err
}
