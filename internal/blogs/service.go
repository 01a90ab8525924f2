package blogs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
	"github.com/sokastore/sokastore-backend/pkg/slug"
)

// Service exposes article operations. Public reads resolve by slug;
// admin writes go by ID.
type Service interface {
	CreateBlog(ctx context.Context, input CreateBlogInput) (*models.Blog, error)
	GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slugValue string) (*models.Blog, error)
	ListBlogs(ctx context.Context, filter BlogFilter, page pagination.Params) ([]models.Blog, pagination.Meta, error)
	UpdateBlog(ctx context.Context, id uuid.UUID, input UpdateBlogInput) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id uuid.UUID) error
	CoverImage(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type service struct {
	blogs BlogRepository
}

// NewService builds a blog service.
func NewService(blogs BlogRepository) (Service, error) {
	if blogs == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	return &service{blogs: blogs}, nil
}

// CreateBlog publishes an article under a unique slug derived from the
// title.
func (s *service) CreateBlog(ctx context.Context, input CreateBlogInput) (*models.Blog, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	slugValue, err := slug.MakeUnique(title, func(candidate string) (bool, error) {
		return s.blogs.SlugExists(ctx, candidate)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive slug")
	}

	blog := &models.Blog{
		Title:            title,
		Slug:             slugValue,
		Content:          input.Content,
		Excerpt:          input.Excerpt,
		Tags:             pq.StringArray(normalizeTags(input.Tags)),
		ImageData:        input.ImageData,
		ImageContentType: input.ImageContentType,
		IsActive:         true,
	}
	if input.Author != nil && strings.TrimSpace(*input.Author) != "" {
		blog.Author = strings.TrimSpace(*input.Author)
	}
	if input.IsActive != nil {
		blog.IsActive = *input.IsActive
	}

	created, err := s.blogs.Create(ctx, blog)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_blogs_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create blog")
	}
	return created, nil
}

// GetBlog loads one article by ID.
func (s *service) GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load blog")
	}
	return blog, nil
}

// GetBlogBySlug loads one published article by slug. Hidden articles
// read as not found.
func (s *service) GetBlogBySlug(ctx context.Context, slugValue string) (*models.Blog, error) {
	blog, err := s.blogs.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load blog")
	}
	if !blog.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
	}
	return blog, nil
}

// ListBlogs pages through articles matching the filter.
func (s *service) ListBlogs(ctx context.Context, filter BlogFilter, page pagination.Params) ([]models.Blog, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.blogs.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blogs")
	}
	return rows, pagination.MetaFor(page, total), nil
}

// UpdateBlog edits an article. Retitling regenerates the slug so links
// always reflect the current title.
func (s *service) UpdateBlog(ctx context.Context, id uuid.UUID, input UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		if title != blog.Title {
			slugValue, err := slug.MakeUnique(title, func(candidate string) (bool, error) {
				if candidate == blog.Slug {
					return false, nil
				}
				return s.blogs.SlugExists(ctx, candidate)
			})
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive slug")
			}
			blog.Slug = slugValue
		}
		blog.Title = title
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "content cannot be empty")
		}
		blog.Content = *input.Content
	}
	if input.Excerpt != nil {
		blog.Excerpt = input.Excerpt
	}
	if input.Author != nil && strings.TrimSpace(*input.Author) != "" {
		blog.Author = strings.TrimSpace(*input.Author)
	}
	if input.Tags != nil {
		blog.Tags = pq.StringArray(normalizeTags(input.Tags))
	}
	if input.ImageData != nil {
		blog.ImageData = input.ImageData
		blog.ImageContentType = input.ImageContentType
	}
	if input.IsActive != nil {
		blog.IsActive = *input.IsActive
	}

	updated, err := s.blogs.Save(ctx, blog)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_blogs_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update blog")
	}
	return updated, nil
}

// DeleteBlog removes an article.
func (s *service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "blog not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete blog")
	}
	return nil
}

// CoverImage returns the stored image bytes and content type.
func (s *service) CoverImage(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(blog.ImageData) == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "blog has no cover image")
	}
	contentType := "image/jpeg"
	if blog.ImageContentType != nil && *blog.ImageContentType != "" {
		contentType = *blog.ImageContentType
	}
	return blog.ImageData, contentType, nil
}

// normalizeTags trims, lowercases, and deduplicates tags preserving
// first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
