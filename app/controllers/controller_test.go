package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
)

func setupDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.PendingRegistration{},
		&models.EmailOtp{}, &models.PhoneOtp{},
		&models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.TrackingEvent{},
		&models.SellerApplication{}, &models.Notification{},
	))
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		database.DB = nil
	})
}

func setupStorage(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())
	t.Setenv("STORAGE_DISK", "local")
	storage.Connect()
}

func seedUser(t *testing.T, email, role string, verified bool) models.User {
	t.Helper()
	user := models.User{
		Name: "Test User", Email: email, Password: "x",
		Role: role, EmailVerified: verified,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// asUser attaches resolved claims the way the middleware chain would.
func asUser(r *http.Request, user models.User) *http.Request {
	return middleware.WithClaims(r, &auth.Claims{
		UserID: user.ID, Email: user.Email, Role: user.Role,
		EmailVerified: user.EmailVerified,
	})
}

// envelope decodes the standard response body.
func envelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
