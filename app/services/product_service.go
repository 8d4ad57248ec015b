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
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
)

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	CategoryID  uint    `json:"category_id" validate:"required,numeric"`
	Description string  `json:"description" validate:"nullable,max=5000"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Stock       int     `json:"stock" validate:"required,gte=0"`
	Published   *bool   `json:"published" validate:"nullable,boolean"`
}

// ProductService covers the storefront catalogue and seller CRUD.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{products: repositories.NewProductRepository()}
}

// Storefront returns one page of published products.
func (s *ProductService) Storefront(categoryID uint, search string, page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.List(repositories.ProductFilter{
		CategoryID:    categoryID,
		Search:        search,
		PublishedOnly: true,
	}, page, limit)
}

// BySlug returns a published product for its detail page.
func (s *ProductService) BySlug(slug string) (models.Product, error) {
	product, err := s.products.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	if !product.Published {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

// ForSeller returns one page of the seller's own products, published
// or not.
func (s *ProductService) ForSeller(sellerID uint, page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.List(repositories.ProductFilter{SellerID: sellerID}, page, limit)
}

// Create adds a product under the seller's account.
func (s *ProductService) Create(sellerID uint, in ProductInput) (models.Product, error) {
	product := models.Product{
		SellerID:    sellerID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Slug:        slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Published:   true,
	}
	if in.Published != nil {
		product.Published = *in.Published
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Update edits a product. Only the owning seller or an admin may
// edit.
func (s *ProductService) Update(id uint, in ProductInput, actorID uint, role string) (models.Product, error) {
	product, err := s.owned(id, actorID, role)
	if err != nil {
		return models.Product{}, err
	}

	product.Name = in.Name
	product.CategoryID = in.CategoryID
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	if in.Published != nil {
		product.Published = *in.Published
	}
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Delete removes a product and its stored image.
func (s *ProductService) Delete(id uint, actorID uint, role string) error {
	product, err := s.owned(id, actorID, role)
	if err != nil {
		return err
	}
	if product.ImagePath != "" {
		storage.DeleteFile(product.ImagePath)
	}
	return s.products.Delete(id)
}

// AttachImage stores an uploaded image on the configured disk and
// records its path on the product.
func (s *ProductService) AttachImage(id uint, header *multipart.FileHeader, actorID uint, role string) (models.Product, error) {
	product, err := s.owned(id, actorID, role)
	if err != nil {
		return models.Product{}, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		return models.Product{}, fmt.Errorf("%w: unsupported image type %s", ErrInvalid, ext)
	}

	file, err := header.Open()
	if err != nil {
		return models.Product{}, err
	}
	defer file.Close()

	path := fmt.Sprintf("products/%d/%s%s", product.ID, uuid.NewString(), ext)
	if err := storage.PutStream(path, file); err != nil {
		return models.Product{}, fmt.Errorf("store image: %w", err)
	}

	if product.ImagePath != "" {
		storage.DeleteFile(product.ImagePath)
	}
	product.ImagePath = path
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// Categories returns the cached category listing.
func (s *ProductService) Categories() ([]models.Category, error) {
	return s.products.Categories()
}

// CreateCategory adds a category. Admin surface.
func (s *ProductService) CreateCategory(name string) (models.Category, error) {
	category := models.Category{Name: name, Slug: slugify(name)}
	if err := s.products.CreateCategory(&category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (s *ProductService) owned(id uint, actorID uint, role string) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	if role != auth.RoleAdmin && product.SellerID != actorID {
		return models.Product{}, ErrForbidden
	}
	return product, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	// Slugs collide across sellers; a short random suffix keeps the
	// unique index happy without a lookup.
	return out + "-" + uuid.NewString()[:8]
}
