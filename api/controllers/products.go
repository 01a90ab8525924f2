package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/catalog"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// ProductController serves the storefront catalog and its admin
// management surface.
type ProductController struct {
	catalog catalog.Service
	uploads config.UploadsConfig
}

// NewProductController wires the controller to its service.
func NewProductController(catalogSvc catalog.Service, uploads config.UploadsConfig) *ProductController {
	return &ProductController{catalog: catalogSvc, uploads: uploads}
}

// List pages through visible products with optional category and
// search filters. Admins pass include_hidden to see soft-deleted rows.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ProductFilter{
		Search: validators.QueryString(r, "search"),
	}
	if raw := validators.QueryString(r, "category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category_id"))
			return
		}
		filter.CategoryID = &id
	}

	rows, meta, err := c.catalog.ListProducts(r.Context(), filter, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// ListAll is the admin listing including hidden products.
func (c *ProductController) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ProductFilter{
		Search:        validators.QueryString(r, "search"),
		IncludeHidden: true,
	}
	rows, meta, err := c.catalog.ListProducts(r.Context(), filter, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// Get loads one product with images and category.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	product, err := c.catalog.GetProduct(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", product)
}

// Related lists products sharing the category.
func (c *ProductController) Related(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	rows, err := c.catalog.RelatedProducts(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", rows)
}

// Image streams stored image bytes.
func (c *ProductController) Image(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	image, err := c.catalog.GetImage(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Data)
}

type productPayload struct {
	Name                 string           `json:"name" validate:"required"`
	Price                decimal.Decimal  `json:"price"`
	CategoryID           *uuid.UUID       `json:"categoryId,omitempty"`
	Size                 *string          `json:"size,omitempty"`
	Description          *string          `json:"description,omitempty"`
	HasCustomization     bool             `json:"hasCustomization"`
	CustomizationDetails *string          `json:"customizationDetails,omitempty"`
	HasVersions          bool             `json:"hasVersions"`
	PriceFan             *decimal.Decimal `json:"priceFan,omitempty"`
	PricePlayer          *decimal.Decimal `json:"pricePlayer,omitempty"`
}

// Create inserts a product. Images are uploaded separately.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	input := catalog.CreateProductInput{
		Name:                 payload.Name,
		Price:                payload.Price,
		CategoryID:           payload.CategoryID,
		Description:          payload.Description,
		HasCustomization:     payload.HasCustomization,
		CustomizationDetails: payload.CustomizationDetails,
		HasVersions:          payload.HasVersions,
		PriceFan:             payload.PriceFan,
		PricePlayer:          payload.PricePlayer,
	}
	if payload.Size != nil {
		size := enums.ProductSize(*payload.Size)
		input.Size = &size
	}

	product, err := c.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "product created", product)
}

type productUpdatePayload struct {
	Name                 *string          `json:"name,omitempty"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	CategoryID           *uuid.UUID       `json:"categoryId,omitempty"`
	Size                 *string          `json:"size,omitempty"`
	Description          *string          `json:"description,omitempty"`
	HasCustomization     *bool            `json:"hasCustomization,omitempty"`
	CustomizationDetails *string          `json:"customizationDetails,omitempty"`
	HasVersions          *bool            `json:"hasVersions,omitempty"`
	PriceFan             *decimal.Decimal `json:"priceFan,omitempty"`
	PricePlayer          *decimal.Decimal `json:"pricePlayer,omitempty"`
	IsActive             *bool            `json:"isActive,omitempty"`
}

// Update edits product fields.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload productUpdatePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	input := catalog.UpdateProductInput{
		Name:                 payload.Name,
		Price:                payload.Price,
		CategoryID:           payload.CategoryID,
		Description:          payload.Description,
		HasCustomization:     payload.HasCustomization,
		CustomizationDetails: payload.CustomizationDetails,
		HasVersions:          payload.HasVersions,
		PriceFan:             payload.PriceFan,
		PricePlayer:          payload.PricePlayer,
		IsActive:             payload.IsActive,
	}
	if payload.Size != nil {
		size := enums.ProductSize(*payload.Size)
		input.Size = &size
	}

	product, err := c.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "product updated", product)
}

// Delete soft-deletes a product so order history keeps resolving.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.catalog.DeleteProduct(r.Context(), id); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "product deleted", nil)
}

// UploadImages accepts multipart image files under the "images" field.
func (c *ProductController) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}

	maxTotal := c.uploads.MaxImageBytes * int64(c.uploads.MaxImageCount)
	if err := r.ParseMultipartForm(maxTotal); err != nil {
		responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid multipart payload"))
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "at least one image file is required"))
		return
	}
	if len(files) > c.uploads.MaxImageCount {
		responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "too many images"))
		return
	}

	uploads := make([]catalog.ImageUpload, 0, len(files))
	for _, header := range files {
		if header.Size > c.uploads.MaxImageBytes {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds maximum size"))
			return
		}
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are accepted"))
			return
		}
		file, err := header.Open()
		if err != nil {
			responses.Error(w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			responses.Error(w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
			return
		}
		uploads = append(uploads, catalog.ImageUpload{Data: data, ContentType: contentType})
	}

	images, err := c.catalog.AddImages(r.Context(), id, uploads)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "images uploaded", images)
}

type removeImagesPayload struct {
	ImageIDs []uuid.UUID `json:"imageIds" validate:"required,min=1"`
}

// RemoveImages deletes the listed images from the product.
func (c *ProductController) RemoveImages(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload removeImagesPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.catalog.RemoveImages(r.Context(), id, payload.ImageIDs); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "images removed", nil)
}

// SetPrimaryImage promotes one image to primary.
func (c *ProductController) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	imageID, err := validators.UUIDParam(r, "imageId")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.catalog.SetPrimaryImage(r.Context(), id, imageID); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "primary image updated", nil)
}
