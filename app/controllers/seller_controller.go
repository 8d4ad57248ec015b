package controllers

import (
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/bind"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/resource"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
)

const maxPermitUpload = 10 << 20

// SellerController covers seller applications and the admin review
// queue.
type SellerController struct {
	sellers *services.SellerService
}

func NewSellerController() *SellerController {
	return &SellerController{sellers: services.NewSellerService()}
}

// Apply submits a seller application with a business permit upload.
func (c *SellerController) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := r.ParseMultipartForm(maxPermitUpload); err != nil {
		response.BadRequest(w, "malformed multipart form")
		return
	}

	in := struct {
		ShopName string `json:"shop_name" validate:"required,max=255"`
	}{ShopName: r.FormValue("shop_name")}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	_, header, err := r.FormFile("permit")
	if err != nil {
		response.ValidationError(w, map[string]string{"permit": "a business permit file is required"})
		return
	}

	application, err := c.sellers.Apply(userID, in.ShopName, header)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, applicationOut(application))
}

// Status returns the caller's own application.
func (c *SellerController) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	application, err := c.sellers.Status(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, applicationOut(application))
}

// Review lists applications for the admin queue, newest first.
func (c *SellerController) Review(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	applications, pagination, err := c.sellers.PendingReview(r.URL.Query().Get("status"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(applications, applicationOut), pagination)
}

// Approve promotes the applicant to seller.
func (c *SellerController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid application id")
		return
	}

	application, err := c.sellers.Approve(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, applicationOut(application))
}

type rejectInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Reject declines an application with a reason the applicant can read.
func (c *SellerController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid application id")
		return
	}

	var in rejectInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	application, err := c.sellers.Reject(id, in.Reason)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, applicationOut(application))
}

func applicationOut(a models.SellerApplication) resource.Map {
	out := resource.Map{
		"id":         a.ID,
		"user_id":    a.UserID,
		"shop_name":  a.ShopName,
		"status":     a.Status,
		"reason":     a.Reason,
		"created_at": a.CreatedAt,
	}
	if a.PermitPath != "" {
		out["permit_url"] = storage.URL(a.PermitPath)
	}
	return out
}
