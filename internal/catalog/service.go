package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
	"github.com/sokastore/sokastore-backend/pkg/slug"
)

const relatedProductLimit = 4

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog operations for products, images, and
// categories.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, page pagination.Params) ([]models.Product, pagination.Meta, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	RelatedProducts(ctx context.Context, id uuid.UUID) ([]models.Product, error)

	AddImages(ctx context.Context, productID uuid.UUID, uploads []ImageUpload) ([]models.ProductImage, error)
	GetImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error)
	RemoveImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error
	SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error
	PrimaryImageURL(ctx context.Context, productID uuid.UUID) (*string, error)

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slugValue string) (*models.Category, error)
	ListCategories(ctx context.Context, search string, page pagination.Params) ([]models.Category, pagination.Meta, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	products   ProductRepository
	categories CategoryRepository
	tx         txRunner
}

// NewService builds a catalog service backed by the provided stack.
func NewService(products ProductRepository, categories CategoryRepository, tx txRunner) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{products: products, categories: categories, tx: tx}, nil
}

// ImageURL returns the public path serving the stored image bytes.
func ImageURL(imageID uuid.UUID) string {
	return "/api/products/image/" + imageID.String()
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	if input.HasVersions && (input.PriceFan == nil || input.PricePlayer == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "versioned products require fan and player prices")
	}
	if input.Size != nil && !input.Size.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product size")
	}
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product := &models.Product{
		Name:                 input.Name,
		Price:                input.Price,
		CategoryID:           input.CategoryID,
		Size:                 input.Size,
		Description:          input.Description,
		HasCustomization:     input.HasCustomization,
		CustomizationDetails: input.CustomizationDetails,
		HasVersions:          input.HasVersions,
		PriceFan:             input.PriceFan,
		PricePlayer:          input.PricePlayer,
		IsActive:             true,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.products.WithTx(tx)
		if _, err := repo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		return s.appendImages(ctx, repo, product.ID, input.Images)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter, page pagination.Params) ([]models.Product, pagination.Meta, error) {
	rows, total, err := s.products.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, pagination.MetaFor(page, total), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
		}
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Size != nil {
		if !input.Size.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product size")
		}
		product.Size = input.Size
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.HasCustomization != nil {
		product.HasCustomization = *input.HasCustomization
	}
	if input.CustomizationDetails != nil {
		product.CustomizationDetails = input.CustomizationDetails
	}
	if input.HasVersions != nil {
		product.HasVersions = *input.HasVersions
	}
	if input.PriceFan != nil {
		product.PriceFan = input.PriceFan
	}
	if input.PricePlayer != nil {
		product.PricePlayer = input.PricePlayer
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if product.HasVersions && (product.PriceFan == nil || product.PricePlayer == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "versioned products require fan and player prices")
	}

	if _, err := s.products.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) RelatedProducts(ctx context.Context, id uuid.UUID) ([]models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.CategoryID == nil {
		return nil, nil
	}
	rows, err := s.products.Related(ctx, *product.CategoryID, product.ID, relatedProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load related products")
	}
	return rows, nil
}

func (s *service) AddImages(ctx context.Context, productID uuid.UUID, uploads []ImageUpload) ([]models.ProductImage, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.appendImages(ctx, s.products.WithTx(tx), productID, uploads)
	})
	if err != nil {
		return nil, err
	}
	images, err := s.products.ListImages(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list images")
	}
	return images, nil
}

// appendImages assigns sequential positions after the existing tail and
// promotes the very first image of a product to primary.
func (s *service) appendImages(ctx context.Context, repo ProductRepository, productID uuid.UUID, uploads []ImageUpload) error {
	if len(uploads) == 0 {
		return nil
	}
	existing, err := repo.CountImages(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count images")
	}
	for i, upload := range uploads {
		if len(upload.Data) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "image payload cannot be empty")
		}
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		image := &models.ProductImage{
			ID:          uuid.New(),
			ProductID:   productID,
			Data:        upload.Data,
			ContentType: contentType,
			IsPrimary:   existing == 0 && i == 0,
			Position:    int(existing) + i,
		}
		image.URL = ImageURL(image.ID)
		if err := repo.AddImage(ctx, image); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
		}
	}
	return nil
}

func (s *service) GetImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error) {
	image, err := s.products.FindImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load image")
	}
	return image, nil
}

func (s *service) RemoveImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	if len(imageIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "image ids are required")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.products.DeleteImages(ctx, productID, imageIDs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete images")
	}
	return nil
}

// SetPrimaryImage clears every primary flag for the product and sets
// the requested image inside one transaction, so exactly one image is
// primary at any observable point.
func (s *service) SetPrimaryImage(ctx context.Context, productID, imageID uuid.UUID) error {
	image, err := s.GetImage(ctx, imageID)
	if err != nil {
		return err
	}
	if image.ProductID != productID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "image does not belong to product")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.products.WithTx(tx)
		if err := repo.ResetPrimary(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset primary image")
		}
		if err := repo.MarkPrimary(ctx, imageID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark primary image")
		}
		return nil
	})
}

func (s *service) PrimaryImageURL(ctx context.Context, productID uuid.UUID) (*string, error) {
	image, err := s.products.PrimaryImage(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load primary image")
	}
	url := image.URL
	return &url, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	slugValue, err := slug.MakeUnique(input.Name, func(candidate string) (bool, error) {
		return s.categories.SlugExists(ctx, candidate)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate slug")
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        slugValue,
		Description: input.Description,
	}
	if _, err := s.categories.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "uq_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slugValue string) (*models.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context, search string, page pagination.Params) ([]models.Category, pagination.Meta, error) {
	rows, total, err := s.categories.List(ctx, search, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, pagination.MetaFor(page, total), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		category.Name = *input.Name
		slugValue, err := slug.MakeUnique(*input.Name, func(candidate string) (bool, error) {
			if candidate == category.Slug {
				return false, nil
			}
			return s.categories.SlugExists(ctx, candidate)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate slug")
		}
		category.Slug = slugValue
	}
	if input.Description != nil {
		category.Description = input.Description
	}

	if _, err := s.categories.Save(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "uq_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}
