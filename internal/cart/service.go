package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/internal/catalog"
	"github.com/sokastore/sokastore-backend/pkg/db"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations scoped to the requesting user.
type Service interface {
	GetOrCreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	products catalog.ProductRepository
	tx       txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, products catalog.ProductRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

// GetOrCreateActiveCart returns the user's active cart, creating an
// empty one on first touch. A concurrent create losing the race on the
// one-active-cart index falls back to reading the winner's row.
func (s *service) GetOrCreateActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.getOrCreate(ctx, s.repo, userID)
}

func (s *service) getOrCreate(ctx context.Context, repo CartRepository, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := repo.Create(ctx, &models.Cart{UserID: userID, TotalAmount: decimal.Zero})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_carts_active_user") {
			existing, findErr := repo.FindActiveByUser(ctx, userID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load cart after create race")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// AddItem snapshots the current variant price and merges the line into
// the cart. The whole operation runs in one transaction so concurrent
// adds of the same variant end up as a single incremented line.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if input.Customization != nil && *input.Customization != "" && !product.HasCustomization {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not support customization")
	}

	price := product.PriceFor(input.Type)
	fee := decimal.Zero
	if input.CustomizationFee != nil {
		if input.CustomizationFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customization fee must be non-negative")
		}
		fee = *input.CustomizationFee
	}
	lineHash := LineHash(input.Size, input.Type, input.Customization)

	var cartID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)

		cart, err := s.getOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		rows, err := repo.IncrementLine(ctx, cart.ID, input.ProductID, lineHash, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
		if rows == 0 {
			item := &models.CartItem{
				CartID:            cart.ID,
				ProductID:         input.ProductID,
				Quantity:          input.Quantity,
				Price:             price,
				Size:              input.Size,
				Type:              input.Type,
				Customization:     input.Customization,
				CustomizationFee:  fee,
				CustomizationHash: lineHash,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				// Lost the insert race against an identical line;
				// fold into the winner instead.
				if db.IsUniqueViolation(err, "uq_cart_items_line") {
					if _, incErr := repo.IncrementLine(ctx, cart.ID, input.ProductID, lineHash, input.Quantity); incErr != nil {
						return pkgerrors.Wrap(pkgerrors.CodeDependency, incErr, "merge cart line after insert race")
					}
				} else {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
				}
			}
		}

		return s.recomputeTotal(ctx, repo, products, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.viewByCartID(ctx, cartID, userID)
}

// UpdateItemQuantity sets a line's quantity. Quantities below 1 delete
// the line and report success.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*View, error) {
	item, cart, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if quantity < 1 {
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
			}
		} else {
			if err := repo.SetItemQuantity(ctx, item.ID, quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
			}
		}
		return s.recomputeTotal(ctx, repo, s.products.WithTx(tx), cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.viewByCartID(ctx, cart.ID, userID)
}

// RemoveItem deletes a line from the user's active cart.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error) {
	item, cart, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}
		return s.recomputeTotal(ctx, repo, s.products.WithTx(tx), cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.viewByCartID(ctx, cart.ID, userID)
}

// ClearCart removes every line from the user's active cart.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return repo.UpdateTotal(ctx, cart.ID, decimal.Zero)
	})
}

// GetCart returns the user's active cart joined with catalog display
// data.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

func (s *service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, *models.Cart, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	cart, err := s.repo.FindByID(ctx, item.CartID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart.UserID != userID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
	}
	if cart.Status != enums.CartStatusActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is no longer active")
	}
	return item, cart, nil
}

// recomputeTotal derives the cart total from stored line snapshots,
// skipping lines whose product is gone or hidden. The product reads go
// through the caller's repository so they see rows written inside an
// open transaction.
func (s *service) recomputeTotal(ctx context.Context, repo CartRepository, products catalog.ProductRepository, cartID uuid.UUID) error {
	items, err := repo.ListItems(ctx, cartID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	usable, _, err := partitionOrphans(ctx, products, items)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range usable {
		total = total.Add(lineTotal(item))
	}
	return repo.UpdateTotal(ctx, cartID, total)
}

func partitionOrphans(ctx context.Context, loader catalog.ProductRepository, items []models.CartItem) ([]models.CartItem, map[uuid.UUID]*models.Product, error) {
	if len(items) == 0 {
		return nil, map[uuid.UUID]*models.Product{}, nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := loader.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	usable := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if product, ok := byID[item.ProductID]; ok && product.IsActive {
			usable = append(usable, item)
		}
	}
	return usable, byID, nil
}

func (s *service) viewByCartID(ctx context.Context, cartID, userID uuid.UUID) (*View, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another user")
	}
	return s.buildView(ctx, cart)
}

func (s *service) buildView(ctx context.Context, cart *models.Cart) (*View, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	_, byID, err := partitionOrphans(ctx, s.products, items)
	if err != nil {
		return nil, err
	}

	view := &View{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Status:    cart.Status,
		Items:     make([]ItemView, 0, len(items)),
		UpdatedAt: cart.UpdatedAt,
	}
	total := decimal.Zero
	for _, item := range items {
		iv := ItemView{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			Price:            item.Price,
			Size:             item.Size,
			Type:             item.Type,
			Customization:    item.Customization,
			CustomizationFee: item.CustomizationFee,
			LineTotal:        lineTotal(item),
		}
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			iv.Orphaned = true
		} else {
			iv.ProductName = product.Name
			if len(product.Images) > 0 {
				url := product.Images[0].URL
				iv.ProductImage = &url
			}
			total = total.Add(iv.LineTotal)
		}
		view.Items = append(view.Items, iv)
	}
	view.TotalAmount = total
	return view, nil
}

func lineTotal(item models.CartItem) decimal.Decimal {
	unit := item.Price.Add(item.CustomizationFee)
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
