package blogs

// CreateBlogInput carries a validated article payload.
type CreateBlogInput struct {
	Title            string
	Content          string
	Excerpt          *string
	Author           *string
	Tags             []string
	ImageData        []byte
	ImageContentType *string
	IsActive         *bool
}

// UpdateBlogInput mutates article fields; nil leaves a field unchanged.
// A new title regenerates the slug.
type UpdateBlogInput struct {
	Title            *string
	Content          *string
	Excerpt          *string
	Author           *string
	Tags             []string
	ImageData        []byte
	ImageContentType *string
	IsActive         *bool
}
