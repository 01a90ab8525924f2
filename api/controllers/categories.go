package controllers

import (
	"net/http"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/catalog"
)

// CategoryController serves category browsing and admin management.
type CategoryController struct {
	catalog catalog.Service
}

// NewCategoryController wires the controller to its service.
func NewCategoryController(catalogSvc catalog.Service) *CategoryController {
	return &CategoryController{catalog: catalogSvc}
}

// List pages through categories with optional name search.
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	rows, meta, err := c.catalog.ListCategories(r.Context(),
		validators.QueryString(r, "search"), validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// Get loads one category by ID.
func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	category, err := c.catalog.GetCategory(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", category)
}

// GetBySlug loads one category by its slug.
func (c *CategoryController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := c.catalog.GetCategoryBySlug(r.Context(), validators.QueryString(r, "slug"))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", category)
}

type categoryPayload struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// Create inserts a category.
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	category, err := c.catalog.CreateCategory(r.Context(), catalog.CreateCategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "category created", category)
}

type categoryUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Update edits category fields; renaming regenerates the slug.
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload categoryUpdatePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	category, err := c.catalog.UpdateCategory(r.Context(), id, catalog.UpdateCategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "category updated", category)
}

// Delete removes a category.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.catalog.DeleteCategory(r.Context(), id); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "category deleted", nil)
}
