package models

import "gorm.io/gorm"

// Category groups products in the catalogue.
type Category struct {
	gorm.Model
	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
}

// Product is a catalogue entry owned by a seller.
type Product struct {
	gorm.Model
	SellerID    uint     `gorm:"not null;index" json:"seller_id"`
	CategoryID  uint     `gorm:"index" json:"category_id"`
	Name        string   `gorm:"size:255;not null;index" json:"name"`
	Slug        string   `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string   `gorm:"type:text" json:"description"`
	Price       float64  `gorm:"not null;default:0" json:"price"`
	Stock       int      `gorm:"not null;default:0" json:"stock"`
	ImagePath   string   `gorm:"size:500" json:"image_path"`
	// No column default: gorm's Create skips zero values when one is
	// set, which would silently publish drafts.
	Published   bool     `gorm:"index" json:"published"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Seller      User     `gorm:"foreignKey:SellerID" json:"-"`
}
