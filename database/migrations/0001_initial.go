// Package migrations holds the schema history. Files register
// themselves with the migration runner via init.
package migrations

import (
	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/migration"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/queue"
)

func init() {
	migration.Register(migration.Migration{
		ID: "2026_02_01_000001_create_core_tables",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.User{},
				&models.PendingRegistration{},
				&models.EmailOtp{},
				&models.PhoneOtp{},
				&models.Category{},
				&models.Product{},
				&models.Order{},
				&models.OrderItem{},
				&models.TrackingEvent{},
				&models.SellerApplication{},
				&models.Notification{},
			)
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(
				&models.Notification{},
				&models.SellerApplication{},
				&models.TrackingEvent{},
				&models.OrderItem{},
				&models.Order{},
				&models.Product{},
				&models.Category{},
				&models.PhoneOtp{},
				&models.EmailOtp{},
				&models.PendingRegistration{},
				&models.User{},
			)
		},
	})

	migration.Register(migration.Migration{
		ID: "2026_02_01_000002_create_failed_jobs",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&queue.FailedJobRecord{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&queue.FailedJobRecord{})
		},
	})
}
