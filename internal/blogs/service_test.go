package blogs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Blog{}))

	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	return svc
}

func strptr(s string) *string { return &s }

func createInput(title string) CreateBlogInput {
	return CreateBlogInput{
		Title:   title,
		Content: "Season preview and what to expect from the new kits.",
		Tags:    []string{"Kits", "preview"},
	}
}

func TestCreateBlog_DerivesSlugAndDefaults(t *testing.T) {
	svc := newTestService(t)

	blog, err := svc.CreateBlog(context.Background(), createInput("New Season Kits 2025!"))
	require.NoError(t, err)
	require.Equal(t, "new-season-kits-2025", blog.Slug)
	require.Equal(t, "SokaStore Admin", blog.Author)
	require.True(t, blog.IsActive)
	require.Equal(t, []string{"kits", "preview"}, []string(blog.Tags))
}

func TestCreateBlog_DuplicateTitleGetsSuffixedSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateBlog(ctx, createInput("Match Day Guide"))
	require.NoError(t, err)
	require.Equal(t, "match-day-guide", first.Slug)

	second, err := svc.CreateBlog(ctx, createInput("Match Day Guide"))
	require.NoError(t, err)
	require.Equal(t, "match-day-guide-1", second.Slug)
}

func TestCreateBlog_RequiresTitleAndContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBlog(ctx, CreateBlogInput{Title: " ", Content: "body"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.CreateBlog(ctx, CreateBlogInput{Title: "Title", Content: "  "})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestCreateBlog_HiddenDraftStaysHidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	hidden := false
	blog, err := svc.CreateBlog(ctx, CreateBlogInput{
		Title:    "Unpublished Draft",
		Content:  "not ready yet",
		IsActive: &hidden,
	})
	require.NoError(t, err)
	require.False(t, blog.IsActive)

	stored, err := svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	_, err = svc.GetBlogBySlug(ctx, blog.Slug)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestGetBlogBySlug_HiddenReadsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, createInput("Hidden Draft"))
	require.NoError(t, err)

	got, err := svc.GetBlogBySlug(ctx, blog.Slug)
	require.NoError(t, err)
	require.Equal(t, blog.ID, got.ID)

	hidden := false
	_, err = svc.UpdateBlog(ctx, blog.ID, UpdateBlogInput{IsActive: &hidden})
	require.NoError(t, err)

	_, err = svc.GetBlogBySlug(ctx, blog.Slug)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdateBlog_RetitleRegeneratesSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, createInput("Old Title"))
	require.NoError(t, err)

	updated, err := svc.UpdateBlog(ctx, blog.ID, UpdateBlogInput{Title: strptr("Brand New Title")})
	require.NoError(t, err)
	require.Equal(t, "Brand New Title", updated.Title)
	require.Equal(t, "brand-new-title", updated.Slug)
}

func TestUpdateBlog_SameTitleKeepsSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, createInput("Stable Title"))
	require.NoError(t, err)

	updated, err := svc.UpdateBlog(ctx, blog.ID, UpdateBlogInput{
		Title:   strptr("Stable Title"),
		Content: strptr("revised body"),
	})
	require.NoError(t, err)
	require.Equal(t, blog.Slug, updated.Slug)
	require.Equal(t, "revised body", updated.Content)
}

func TestListBlogs_FiltersHiddenAndTags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	published, err := svc.CreateBlog(ctx, createInput("Published Post"))
	require.NoError(t, err)

	hidden := false
	draft, err := svc.CreateBlog(ctx, CreateBlogInput{
		Title:    "Draft Post",
		Content:  "unpublished",
		IsActive: &hidden,
	})
	require.NoError(t, err)

	rows, meta, err := svc.ListBlogs(ctx, BlogFilter{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 1, meta.Total)
	require.Equal(t, published.ID, rows[0].ID)

	rows, _, err = svc.ListBlogs(ctx, BlogFilter{IncludeHidden: true}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, _, err = svc.ListBlogs(ctx, BlogFilter{Tag: "kits"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, published.ID, rows[0].ID)

	_ = draft
}

func TestCoverImage_ReturnsBytesAndContentType(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := createInput("Illustrated Post")
	input.ImageData = []byte{0x89, 0x50, 0x4e, 0x47}
	input.ImageContentType = strptr("image/png")
	blog, err := svc.CreateBlog(ctx, input)
	require.NoError(t, err)

	data, contentType, err := svc.CoverImage(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, input.ImageData, data)
	require.Equal(t, "image/png", contentType)

	bare, err := svc.CreateBlog(ctx, createInput("Plain Post"))
	require.NoError(t, err)
	_, _, err = svc.CoverImage(ctx, bare.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestDeleteBlog_MissingNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, createInput("Short Lived"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBlog(ctx, blog.ID))

	err = svc.DeleteBlog(ctx, blog.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
