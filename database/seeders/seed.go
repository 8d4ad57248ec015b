// Package seeders loads development fixtures. Run is idempotent so a
// repeated `lawlaw seed` does not duplicate rows.
package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

// Run seeds a usable development dataset: one account per role, the
// catalogue categories, and a few published products.
func Run(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedCatalog(db); err != nil {
		return err
	}
	logger.Info("database seeded")
	return nil
}

func seedUsers(db *gorm.DB) error {
	seeds := []struct {
		name  string
		email string
		role  string
	}{
		{"Admin", "admin@lawlaw.test", auth.RoleAdmin},
		{"Sample Seller", "seller@lawlaw.test", auth.RoleSeller},
		{"Sample Buyer", "buyer@lawlaw.test", auth.RoleUser},
	}

	for _, s := range seeds {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", s.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := auth.HashPassword("password")
		if err != nil {
			return err
		}
		user := models.User{
			Name:          s.name,
			Email:         s.email,
			Password:      hash,
			Role:          s.role,
			EmailVerified: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", s.email, err)
		}
	}
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var seller models.User
	if err := db.Where("email = ?", "seller@lawlaw.test").First(&seller).Error; err != nil {
		return err
	}

	categories := []models.Category{
		{Name: "Fresh Catch", Slug: "fresh-catch"},
		{Name: "Dried Goods", Slug: "dried-goods"},
		{Name: "Delicacies", Slug: "delicacies"},
	}
	for i := range categories {
		var existing models.Category
		err := db.Where("slug = ?", categories[i].Slug).First(&existing).Error
		if err == nil {
			categories[i] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&categories[i]).Error; err != nil {
			return err
		}
	}

	products := []models.Product{
		{
			Name: "Lawlaw Sinarapan Pack", Slug: "lawlaw-sinarapan-pack",
			Description: "Half kilo of sun-dried lawlaw, vacuum packed.",
			Price:       180, Stock: 50, Published: true,
			SellerID: seller.ID, CategoryID: categories[1].ID,
		},
		{
			Name: "Fresh Lawlaw Catch", Slug: "fresh-lawlaw-catch",
			Description: "Morning catch, sold per kilo.",
			Price:       220, Stock: 30, Published: true,
			SellerID: seller.ID, CategoryID: categories[0].ID,
		},
		{
			Name: "Ginataang Lawlaw Mix", Slug: "ginataang-lawlaw-mix",
			Description: "Ready-to-cook mix with coconut cream base.",
			Price:       150, Stock: 40, Published: true,
			SellerID: seller.ID, CategoryID: categories[2].ID,
		},
	}
	for i := range products {
		var count int64
		if err := db.Model(&models.Product{}).Where("slug = ?", products[i].Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
