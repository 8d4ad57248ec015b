package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
)

func TestApplyCreatesPendingApplication(t *testing.T) {
	setupDB(t)
	disk := setupDisk(t)
	user := seedUser(t, "buyer@lawlaw.test", "", auth.RoleUser, true)
	svc := NewSellerService()

	application, err := svc.Apply(user.ID, "Bulan Lawlaw Stand", fileHeader(t, "permit", "permit.pdf", "pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, models.SellerApplicationPending, application.Status)
	assert.Equal(t, "Bulan Lawlaw Stand", application.ShopName)
	assert.True(t, disk.Exists(application.PermitPath))

	got, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.Equal(t, application.ID, got.ID)
}

func TestApplyRejectsWrongRoleMissingPermitAndDuplicates(t *testing.T) {
	setupDB(t)
	setupDisk(t)
	svc := NewSellerService()

	seller := seedUser(t, "seller@lawlaw.test", "", auth.RoleSeller, true)
	_, err := svc.Apply(seller.ID, "Second Shop", fileHeader(t, "permit", "permit.pdf", "x"))
	assert.ErrorIs(t, err, ErrInvalid)

	user := seedUser(t, "buyer@lawlaw.test", "", auth.RoleUser, true)
	_, err = svc.Apply(user.ID, "No Permit Shop", nil)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Apply(user.ID, "Odd Permit Shop", fileHeader(t, "permit", "permit.txt", "x"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Apply(user.ID, "Bulan Lawlaw Stand", fileHeader(t, "permit", "permit.pdf", "x"))
	require.NoError(t, err)
	_, err = svc.Apply(user.ID, "Bulan Lawlaw Stand", fileHeader(t, "permit", "permit.pdf", "x"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Apply(9999, "Ghost Shop", fileHeader(t, "permit", "permit.pdf", "x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectStoresReasonAndAllowsReapply(t *testing.T) {
	setupDB(t)
	setupDisk(t)
	user := seedUser(t, "buyer@lawlaw.test", "", auth.RoleUser, true)
	svc := NewSellerService()

	application, err := svc.Apply(user.ID, "Bulan Lawlaw Stand", fileHeader(t, "permit", "permit.pdf", "x"))
	require.NoError(t, err)

	rejected, err := svc.Reject(application.ID, "permit unreadable")
	require.NoError(t, err)
	assert.Equal(t, models.SellerApplicationRejected, rejected.Status)
	assert.Equal(t, "permit unreadable", rejected.Reason)

	resubmitted, err := svc.Apply(user.ID, "Bulan Lawlaw Stand v2", fileHeader(t, "permit", "permit2.pdf", "x"))
	require.NoError(t, err)
	assert.Equal(t, application.ID, resubmitted.ID, "rejection reuses the application row")
	assert.Equal(t, models.SellerApplicationPending, resubmitted.Status)
	assert.Equal(t, "Bulan Lawlaw Stand v2", resubmitted.ShopName)
	assert.Empty(t, resubmitted.Reason)
}

func TestApproveConvertsRole(t *testing.T) {
	setupDB(t)
	setupDisk(t)
	user := seedUser(t, "buyer@lawlaw.test", "", auth.RoleUser, true)
	svc := NewSellerService()

	application, err := svc.Apply(user.ID, "Bulan Lawlaw Stand", fileHeader(t, "permit", "permit.pdf", "x"))
	require.NoError(t, err)

	approved, err := svc.Approve(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SellerApplicationApproved, approved.Status)

	var promoted models.User
	require.NoError(t, database.DB.First(&promoted, user.ID).Error)
	assert.Equal(t, auth.RoleSeller, promoted.Role)

	again, err := svc.Approve(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SellerApplicationApproved, again.Status)

	_, err = svc.Approve(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingReviewFiltersByStatus(t *testing.T) {
	setupDB(t)
	setupDisk(t)
	svc := NewSellerService()

	first := seedUser(t, "a@lawlaw.test", "", auth.RoleUser, true)
	second := seedUser(t, "b@lawlaw.test", "", auth.RoleUser, true)
	appA, err := svc.Apply(first.ID, "Stand A", fileHeader(t, "permit", "a.pdf", "x"))
	require.NoError(t, err)
	_, err = svc.Apply(second.ID, "Stand B", fileHeader(t, "permit", "b.pdf", "x"))
	require.NoError(t, err)

	_, err = svc.Reject(appA.ID, "incomplete")
	require.NoError(t, err)

	pending, _, err := svc.PendingReview(models.SellerApplicationPending, 1, 20)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Stand B", pending[0].ShopName)

	all, _, err := svc.PendingReview("", 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
