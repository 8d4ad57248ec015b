package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/bind"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/resource"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
)

const maxImageUpload = 5 << 20

// ProductController serves the public storefront and the seller
// catalogue surface.
type ProductController struct {
	products *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{products: services.NewProductService()}
}

// Storefront lists published products, optionally filtered by category
// or search term.
func (c *ProductController) Storefront(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	var categoryID uint
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(w, "invalid category_id")
			return
		}
		categoryID = uint(parsed)
	}

	products, pagination, err := c.products.Storefront(categoryID, r.URL.Query().Get("search"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(products, productOut), pagination)
}

// Show resolves one published product by slug.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.products.BySlug(chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, productOut(product))
}

// Categories lists the catalogue categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.products.Categories()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.Slice(categories, categoryOut))
}

// Mine lists the caller's own products, published or not.
func (c *ProductController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, limit := pageParams(r)
	products, pagination, err := c.products.ForSeller(userID, page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(products, productOut), pagination)
}

// Create adds a product owned by the caller.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, productOut(product))
}

// Update edits a product the caller owns.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Update(id, in, claims.UserID, claims.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, productOut(product))
}

// Delete removes a product the caller owns.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}

	if err := c.products.Delete(id, claims.UserID, claims.Role); err != nil {
		fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// UploadImage attaches a product image from a multipart form.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		response.BadRequest(w, "malformed multipart form")
		return
	}
	_, header, err := r.FormFile("image")
	if err != nil {
		response.ValidationError(w, map[string]string{"image": "an image file is required"})
		return
	}

	product, err := c.products.AttachImage(id, header, claims.UserID, claims.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, productOut(product))
}

type categoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateCategory adds a catalogue category. Admin surface.
func (c *ProductController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	category, err := c.products.CreateCategory(in.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, categoryOut(category))
}

func productOut(p models.Product) resource.Map {
	out := resource.Map{
		"id":          p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"published":   p.Published,
		"seller_id":   p.SellerID,
		"category_id": p.CategoryID,
		"created_at":  p.CreatedAt,
	}
	if p.ImagePath != "" {
		out["image_url"] = storage.URL(p.ImagePath)
	}
	if p.Category.ID != 0 {
		out["category"] = categoryOut(p.Category)
	}
	return out
}

func categoryOut(c models.Category) resource.Map {
	return resource.Map{
		"id":   c.ID,
		"name": c.Name,
		"slug": c.Slug,
	}
}
