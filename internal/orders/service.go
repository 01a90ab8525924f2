package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/internal/cart"
	"github.com/sokastore/sokastore-backend/internal/catalog"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, pagination.Meta, error)
	ListOrders(ctx context.Context, filter OrderFilter, page pagination.Params) ([]models.Order, pagination.Meta, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error)
	UpdatePayment(ctx context.Context, orderID uuid.UUID, input UpdatePaymentInput) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	orders   OrderRepository
	carts    cart.CartRepository
	products catalog.ProductRepository
	tx       txRunner
	taxRate  decimal.Decimal
}

// NewService builds an order service. The tax rate comes from
// configuration so rate changes never touch stored orders.
func NewService(orders OrderRepository, carts cart.CartRepository, products catalog.ProductRepository, tx txRunner, cfg config.OrdersConfig) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", cfg.TaxRate, err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must be non-negative, got %s", taxRate)
	}
	return &service{
		orders:   orders,
		carts:    carts,
		products: products,
		tx:       tx,
		taxRate:  taxRate,
	}, nil
}

// CreateOrder checks out the user's active cart: snapshots every usable
// line, computes totals server-side, and completes the cart, all in one
// transaction.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	paymentMethod, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	deliveryType := enums.DeliveryTypePickup
	if input.DeliveryType != "" {
		deliveryType, err = enums.ParseDeliveryType(input.DeliveryType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}
	if deliveryType == enums.DeliveryTypeDelivery {
		if input.DeliveryAddress == nil || strings.TrimSpace(*input.DeliveryAddress) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required for delivery orders")
		}
	}
	deliveryFee := decimal.Zero
	if input.DeliveryFee != nil {
		if input.DeliveryFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must be non-negative")
		}
		deliveryFee = *input.DeliveryFee
	}

	var orderID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)
		products := s.products.WithTx(tx)

		activeCart, err := carts.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		items, err := carts.ListItems(ctx, activeCart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
		}
		snapshots, subtotal, err := snapshotLines(ctx, products, items)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		tax := subtotal.Mul(s.taxRate).Round(2)
		total := subtotal.Add(deliveryFee).Add(tax)

		number, err := newOrderNumber()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint order number")
		}

		order := &models.Order{
			UserID:          userID,
			OrderNumber:     number,
			CustomerName:    name,
			CustomerPhone:   phone,
			CustomerEmail:   input.CustomerEmail,
			DeliveryType:    deliveryType,
			DeliveryZone:    input.DeliveryZone,
			DeliveryAddress: input.DeliveryAddress,
			DeliveryFee:     deliveryFee,
			Subtotal:        subtotal,
			TaxAmount:       tax,
			TotalAmount:     total,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentPhone:    input.PaymentPhone,
			OrderStatus:     enums.OrderStatusPending,
			Notes:           input.Notes,
			Items:           snapshots,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		orderID = order.ID

		if err := carts.DeleteItems(ctx, activeCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drain cart")
		}
		if err := carts.UpdateTotal(ctx, activeCart.ID, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart total")
		}
		if err := carts.UpdateStatus(ctx, activeCart.ID, enums.CartStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// snapshotLines copies usable cart lines into order items. Lines whose
// product is gone or hidden are dropped rather than blocking checkout.
// The loader must share the checkout transaction so product reads stay
// consistent with the cart rows being drained.
func snapshotLines(ctx context.Context, loader catalog.ProductRepository, items []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := loader.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	snapshots := make([]models.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			continue
		}
		lineSubtotal := item.Price.Add(item.CustomizationFee).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		snapshot := models.OrderItem{
			ProductID:        item.ProductID,
			ProductName:      product.Name,
			Quantity:         item.Quantity,
			Price:            item.Price,
			Subtotal:         lineSubtotal,
			Size:             item.Size,
			Type:             item.Type,
			Customization:    item.Customization,
			CustomizationFee: item.CustomizationFee,
		}
		if len(product.Images) > 0 {
			url := product.Images[0].URL
			snapshot.ProductImage = &url
		}
		snapshots = append(snapshots, snapshot)
		subtotal = subtotal.Add(lineSubtotal)
	}
	return snapshots, subtotal, nil
}

// GetOrder loads any order by ID.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// GetUserOrder loads an order scoped to its owner. Orders belonging to
// other users read as not found.
func (s *service) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// ListUserOrders pages through the user's own order history.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, pagination.Meta, error) {
	filter := OrderFilter{UserID: &userID}
	return s.ListOrders(ctx, filter, page)
}

// ListOrders pages through orders matching the filter.
func (s *service) ListOrders(ctx context.Context, filter OrderFilter, page pagination.Params) ([]models.Order, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.orders.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, pagination.MetaFor(page, total), nil
}

// UpdateOrderStatus advances fulfillment state. Transitions only move
// forward; shipped and delivered timestamps are stamped on first entry
// and never overwritten.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus == next {
		return order, nil
	}
	if !order.OrderStatus.CanTransition(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.OrderStatus, next))
	}

	values := map[string]any{}
	stampOrderStatus(values, order, next)
	if err := s.orders.Updates(ctx, orderID, values); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.GetOrder(ctx, orderID)
}

// stampOrderStatus writes the fulfillment change into values. Shipped
// and delivered timestamps are stamped on first entry and never
// overwritten.
func stampOrderStatus(values map[string]any, order *models.Order, next enums.OrderStatus) {
	values["order_status"] = next
	now := time.Now().UTC()
	switch next {
	case enums.OrderStatusShipped:
		if order.ShippedAt == nil {
			values["shipped_at"] = now
		}
	case enums.OrderStatusDelivered:
		if order.ShippedAt == nil {
			values["shipped_at"] = now
		}
		if order.DeliveredAt == nil {
			values["delivered_at"] = now
		}
	}
}

// UpdatePayment moves payment state, optionally advancing fulfillment
// in the same update. PaidAt records the first moment the order was
// paid and survives later refunds.
func (s *service) UpdatePayment(ctx context.Context, orderID uuid.UUID, input UpdatePaymentInput) (*models.Order, error) {
	next, err := enums.ParsePaymentStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentStatus.CanTransition(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move payment from %s to %s", order.PaymentStatus, next))
	}

	values := map[string]any{"payment_status": next}
	if next == enums.PaymentStatusPaid && order.PaidAt == nil {
		values["paid_at"] = time.Now().UTC()
	}
	if input.TransactionID != nil {
		values["transaction_id"] = *input.TransactionID
	}
	if input.OrderStatus != nil {
		nextOrder, err := enums.ParseOrderStatus(*input.OrderStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if nextOrder != order.OrderStatus {
			if !order.OrderStatus.CanTransition(nextOrder) {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("cannot move order from %s to %s", order.OrderStatus, nextOrder))
			}
			stampOrderStatus(values, order, nextOrder)
		}
	}
	if err := s.orders.Updates(ctx, orderID, values); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return s.GetOrder(ctx, orderID)
}

// CancelOrder cancels the user's own order. Cancelling an already
// cancelled order succeeds; orders that have shipped cannot be
// cancelled.
func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus == enums.OrderStatusCancelled {
		return order, nil
	}
	if !order.OrderStatus.CanTransition(enums.OrderStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot cancel order in status %s", order.OrderStatus))
	}
	if err := s.orders.Updates(ctx, orderID, map[string]any{"order_status": enums.OrderStatusCancelled}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return s.GetOrder(ctx, orderID)
}

// DeleteOrder permanently removes an order and its line snapshots.
func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}
