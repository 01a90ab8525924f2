package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/blogs"
)

// BlogController serves published articles and their admin management.
type BlogController struct {
	blogs blogs.Service
}

// NewBlogController wires the controller to its service.
func NewBlogController(blogsSvc blogs.Service) *BlogController {
	return &BlogController{blogs: blogsSvc}
}

// List pages through published articles with optional tag and search
// filters.
func (c *BlogController) List(w http.ResponseWriter, r *http.Request) {
	filter := blogs.BlogFilter{
		Tag:    validators.QueryString(r, "tag"),
		Search: validators.QueryString(r, "search"),
	}
	rows, meta, err := c.blogs.ListBlogs(r.Context(), filter, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// ListAll is the admin listing including hidden articles.
func (c *BlogController) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := blogs.BlogFilter{
		Tag:           validators.QueryString(r, "tag"),
		Search:        validators.QueryString(r, "search"),
		IncludeHidden: true,
	}
	rows, meta, err := c.blogs.ListBlogs(r.Context(), filter, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// Get is the admin single-article lookup by ID.
func (c *BlogController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	blog, err := c.blogs.GetBlog(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", blog)
}

// GetBySlug loads one published article by slug.
func (c *BlogController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	blog, err := c.blogs.GetBlogBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", blog)
}

// CoverImage streams an article's stored cover image.
func (c *BlogController) CoverImage(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	data, contentType, err := c.blogs.CoverImage(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type blogPayload struct {
	Title            string   `json:"title" validate:"required"`
	Content          string   `json:"content" validate:"required"`
	Excerpt          *string  `json:"excerpt,omitempty"`
	Author           *string  `json:"author,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	ImageData        []byte   `json:"imageData,omitempty"`
	ImageContentType *string  `json:"imageContentType,omitempty"`
	IsActive         *bool    `json:"isActive,omitempty"`
}

// Create publishes an article.
func (c *BlogController) Create(w http.ResponseWriter, r *http.Request) {
	var payload blogPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	blog, err := c.blogs.CreateBlog(r.Context(), blogs.CreateBlogInput{
		Title:            payload.Title,
		Content:          payload.Content,
		Excerpt:          payload.Excerpt,
		Author:           payload.Author,
		Tags:             payload.Tags,
		ImageData:        payload.ImageData,
		ImageContentType: payload.ImageContentType,
		IsActive:         payload.IsActive,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "blog created", blog)
}

type blogUpdatePayload struct {
	Title            *string  `json:"title,omitempty"`
	Content          *string  `json:"content,omitempty"`
	Excerpt          *string  `json:"excerpt,omitempty"`
	Author           *string  `json:"author,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	ImageData        []byte   `json:"imageData,omitempty"`
	ImageContentType *string  `json:"imageContentType,omitempty"`
	IsActive         *bool    `json:"isActive,omitempty"`
}

// Update edits article fields; a new title regenerates the slug.
func (c *BlogController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload blogUpdatePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	blog, err := c.blogs.UpdateBlog(r.Context(), id, blogs.UpdateBlogInput{
		Title:            payload.Title,
		Content:          payload.Content,
		Excerpt:          payload.Excerpt,
		Author:           payload.Author,
		Tags:             payload.Tags,
		ImageData:        payload.ImageData,
		ImageContentType: payload.ImageContentType,
		IsActive:         payload.IsActive,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "blog updated", blog)
}

// Delete removes an article.
func (c *BlogController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.blogs.DeleteBlog(r.Context(), id); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "blog deleted", nil)
}
