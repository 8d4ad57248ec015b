package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
)

func applyRequest(t *testing.T, shopName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("shop_name", shopName))
	fw, err := mw.CreateFormFile("permit", "permit.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pdf-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/seller/apply", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSellerApplySubmitsShopName(t *testing.T) {
	setupDB(t)
	setupStorage(t)
	user := seedUser(t, "buyer@lawlaw.test", auth.RoleUser, true)
	ctrl := NewSellerController()

	rec := httptest.NewRecorder()
	ctrl.Apply(rec, asUser(applyRequest(t, "Bulan Lawlaw Stand"), user))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := envelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Bulan Lawlaw Stand", data["shop_name"])
	assert.Equal(t, models.SellerApplicationPending, data["status"])

	var stored models.SellerApplication
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, "Bulan Lawlaw Stand", stored.ShopName)
}

func TestSellerApplyValidatesShopName(t *testing.T) {
	setupDB(t)
	setupStorage(t)
	user := seedUser(t, "buyer@lawlaw.test", auth.RoleUser, true)
	ctrl := NewSellerController()

	rec := httptest.NewRecorder()
	ctrl.Apply(rec, asUser(applyRequest(t, ""), user))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
