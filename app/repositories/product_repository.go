package repositories

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/cache"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

const categoriesCacheKey = "catalog:categories"

// ProductRepository handles the catalogue tables.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	CategoryID uint
	SellerID   uint
	Search     string
	// PublishedOnly hides unpublished items from storefront queries.
	PublishedOnly bool
}

// List returns one page of products matching the filter.
func (r *ProductRepository) List(f ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	defer observe("products.list")()
	q := orm.DB().Model(&models.Product{}).Preload("Category")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Search != "" {
		q = q.Where("name LIKE ?", "%"+f.Search+"%")
	}
	if f.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	var products []models.Product
	pagination, err := q.Order("id DESC").GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// FindByID loads a product with its category.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	defer observe("products.find")()
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").
		Where("id = ?", id).First(&product)
	return product, err
}

// FindBySlug loads a product by its storefront slug.
func (r *ProductRepository) FindBySlug(slug string) (models.Product, error) {
	defer observe("products.find_by_slug")()
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").
		Where("slug = ?", slug).First(&product)
	return product, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	defer observe("products.create")()
	return orm.DB().Create(product)
}

// Update persists changes to a product.
func (r *ProductRepository) Update(product *models.Product) error {
	defer observe("products.update")()
	return orm.DB().Save(product)
}

// Delete soft-deletes a product.
func (r *ProductRepository) Delete(id uint) error {
	defer observe("products.delete")()
	return orm.DB().Gorm().Delete(&models.Product{}, id).Error
}

// LockForUpdate loads a product under a row lock inside tx. Used by
// checkout to decrement stock safely. SQLite has no row locks; its
// writer lock already serializes the transaction.
func (r *ProductRepository) LockForUpdate(tx *orm.Query, id uint) (models.Product, error) {
	defer observe("products.lock")()
	q := tx.Gorm()
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	err := q.Where("id = ?", id).First(&product).Error
	return product, err
}

// Categories returns all categories through a short read cache.
func (r *ProductRepository) Categories() ([]models.Category, error) {
	defer observe("categories.list")()
	var categories []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name ASC").
		Cache(categoriesCacheKey, 5*time.Minute, &categories)
	return categories, err
}

// CreateCategory persists a category and drops the listing cache.
func (r *ProductRepository) CreateCategory(category *models.Category) error {
	defer observe("categories.create")()
	if err := orm.DB().Create(category); err != nil {
		return err
	}
	cache.Forget(categoriesCacheKey)
	return nil
}
