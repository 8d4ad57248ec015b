// Package migration applies schema changes in order and records what
// has already run.
package migration

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

// Migration is one schema change.
type Migration struct {
	ID   string // e.g. "2026_01_10_000001_create_users"
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

type record struct {
	ID    string `gorm:"primaryKey;size:191"`
	RanAt time.Time
}

func (record) TableName() string { return "lawlaw_migrations" }

var registry []Migration

// Register adds migrations to the registry. Call from init funcs in
// database/migrations.
func Register(ms ...Migration) {
	registry = append(registry, ms...)
}

// Up applies every registered migration that has not run yet, in ID
// order.
func Up(db *gorm.DB) error {
	if err := db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: bookkeeping table: %w", err)
	}

	sort.Slice(registry, func(i, j int) bool { return registry[i].ID < registry[j].ID })

	for _, m := range registry {
		var count int64
		if err := db.Model(&record{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		logger.Info("applying migration", "id", m.ID)
		if err := m.Up(db); err != nil {
			return fmt.Errorf("migration: %s: %w", m.ID, err)
		}
		if err := db.Create(&record{ID: m.ID, RanAt: time.Now().UTC()}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func Rollback(db *gorm.DB) error {
	var last record
	if err := db.Order("ran_at DESC").First(&last).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	for _, m := range registry {
		if m.ID != last.ID {
			continue
		}
		if m.Down == nil {
			return fmt.Errorf("migration: %s has no down step", m.ID)
		}
		logger.Info("rolling back migration", "id", m.ID)
		if err := m.Down(db); err != nil {
			return fmt.Errorf("migration: rollback %s: %w", m.ID, err)
		}
		return db.Delete(&record{}, "id = ?", m.ID).Error
	}
	return fmt.Errorf("migration: %s not found in registry", last.ID)
}

// Status lists each registered migration and whether it has run.
func Status(db *gorm.DB) ([]string, error) {
	var ran []record
	if err := db.Find(&ran).Error; err != nil {
		return nil, err
	}
	applied := map[string]bool{}
	for _, r := range ran {
		applied[r.ID] = true
	}

	sort.Slice(registry, func(i, j int) bool { return registry[i].ID < registry[j].ID })
	out := make([]string, 0, len(registry))
	for _, m := range registry {
		state := "pending"
		if applied[m.ID] {
			state = "ran"
		}
		out = append(out, fmt.Sprintf("%-60s %s", m.ID, state))
	}
	return out, nil
}
