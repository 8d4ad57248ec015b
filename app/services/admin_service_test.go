package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
)

func TestSetRoleConvertsUser(t *testing.T) {
	setupDB(t)
	svc := NewAdminService()
	admin := seedUser(t, "boss@example.com", "", auth.RoleAdmin, true)
	target := seedUser(t, "member@example.com", "", auth.RoleUser, true)

	updated, err := svc.SetRole(target.ID, auth.RoleSeller, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSeller, updated.Role)

	var stored models.User
	require.NoError(t, database.DB.First(&stored, target.ID).Error)
	assert.Equal(t, auth.RoleSeller, stored.Role)
}

func TestSetRoleRejectsSelfAndUnknownRole(t *testing.T) {
	setupDB(t)
	svc := NewAdminService()
	admin := seedUser(t, "boss@example.com", "", auth.RoleAdmin, true)

	_, err := svc.SetRole(admin.ID, auth.RoleUser, admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	target := seedUser(t, "member@example.com", "", auth.RoleUser, true)
	_, err = svc.SetRole(target.ID, "superuser", admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSetBlockedTogglesFlagButNotSelf(t *testing.T) {
	setupDB(t)
	svc := NewAdminService()
	admin := seedUser(t, "boss@example.com", "", auth.RoleAdmin, true)
	target := seedUser(t, "member@example.com", "", auth.RoleUser, true)

	updated, err := svc.SetBlocked(target.ID, true, admin.ID)
	require.NoError(t, err)
	assert.True(t, updated.Blocked)

	_, err = svc.SetBlocked(admin.ID, true, admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestResetCredentialsStoresNewHash(t *testing.T) {
	setupDB(t)
	svc := NewAdminService()
	admin := seedUser(t, "boss@example.com", "", auth.RoleAdmin, true)
	target := seedUser(t, "member@example.com", "", auth.RoleUser, true)

	require.NoError(t, svc.ResetCredentials(target.ID, "brand-new-pass", admin.ID))

	var stored models.User
	require.NoError(t, database.DB.First(&stored, target.ID).Error)
	assert.True(t, auth.CheckPassword(stored.Password, "brand-new-pass"))
}

func TestStatsGroupsOrdersByDay(t *testing.T) {
	setupDB(t)
	svc := NewAdminService()
	buyer := seedUser(t, "buyer@example.com", "", auth.RoleUser, true)

	today := time.Now().UTC()
	yesterday := today.Add(-24 * time.Hour)
	orders := []models.Order{
		{Reference: "ord-1", UserID: buyer.ID, Status: models.OrderStatusDelivered, Total: 100},
		{Reference: "ord-2", UserID: buyer.ID, Status: models.OrderStatusPending, Total: 50},
		{Reference: "ord-3", UserID: buyer.ID, Status: models.OrderStatusPending, Total: 25},
	}
	require.NoError(t, database.DB.Create(&orders).Error)
	require.NoError(t, database.DB.Model(&models.Order{}).
		Where("reference = ?", "ord-3").
		Update("created_at", yesterday).Error)

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.OrdersByStatus[models.OrderStatusDelivered])
	assert.Equal(t, int64(2), stats.OrdersByStatus[models.OrderStatusPending])
	assert.Equal(t, 100.0, stats.Revenue)

	require.Len(t, stats.OrdersByDay, 2)
	assert.Equal(t, yesterday.Format("2006-01-02"), stats.OrdersByDay[0].Day)
	assert.Equal(t, 1, stats.OrdersByDay[0].Count)
	assert.Equal(t, today.Format("2006-01-02"), stats.OrdersByDay[1].Day)
	assert.Equal(t, 2, stats.OrdersByDay[1].Count)
	assert.Equal(t, 150.0, stats.OrdersByDay[1].Total)
}
