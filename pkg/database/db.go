// Package database owns the GORM connection for the marketplace.
package database

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

var dialectors = map[string]func(string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// Connect opens the database named by DB_DRIVER/DATABASE_DSN and sizes
// the pool from DB_MAX_OPEN_CONNS and DB_MAX_IDLE_CONNS. Returns an
// error instead of exiting so the caller can shut down gracefully.
func Connect() error {
	driver := config.DatabaseDriver()
	open, ok := dialectors[driver]
	if !ok {
		return fmt.Errorf("database: unsupported DB_DRIVER %q (supported: %s)", driver, supportedDrivers())
	}

	db, err := gorm.Open(open(config.DatabaseDSN()), &gorm.Config{
		// GORM's own logger stays silent; queries are logged through
		// pkg/logger at the call sites that care.
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.GetInt("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(config.GetInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	DB = db
	return nil
}

// Close releases the underlying connection pool. Safe to call when
// Connect never ran.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func supportedDrivers() string {
	names := make([]string, 0, len(dialectors))
	for name := range dialectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
