package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the stock ledger. The ledger is the source of truth;
// the counter on products is a cache kept in lockstep inside the same
// transaction as every ledger write.
type Service interface {
	RecordMovement(ctx context.Context, input RecordMovementInput) (*models.StockMovement, error)
	GetMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error)
	UpdateMovement(ctx context.Context, id uuid.UUID, input UpdateMovementInput) (*models.StockMovement, error)
	DeleteMovement(ctx context.Context, id uuid.UUID) error
	ListMovements(ctx context.Context, filter MovementFilter, page pagination.Params) ([]models.StockMovement, pagination.Meta, error)
	StockLevels(ctx context.Context, page pagination.Params) ([]StockLevel, pagination.Meta, error)
	ProductHistory(ctx context.Context, productID uuid.UUID) ([]HistoryEntry, error)
	VerifyCounter(ctx context.Context, productID uuid.UUID) (*CounterReport, error)
}

type service struct {
	stock StockRepository
	tx    txRunner
}

// NewService builds a stock service.
func NewService(stock StockRepository, tx txRunner) (Service, error) {
	if stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{stock: stock, tx: tx}, nil
}

// RecordMovement appends a ledger entry and moves the counter in the
// same transaction. Outbound entries that would take the counter below
// zero are rejected without touching either side.
func (s *service) RecordMovement(ctx context.Context, input RecordMovementInput) (*models.StockMovement, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	movementType, err := enums.ParseMovementType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be non-negative")
	}

	movement := &models.StockMovement{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Type:      movementType,
		UnitPrice: input.UnitPrice,
		Reference: input.Reference,
		Notes:     input.Notes,
	}
	if input.OccurredAt != nil {
		movement.OccurredAt = *input.OccurredAt
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)

		product, err := stock.FindProduct(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		switch movementType {
		case enums.MovementTypeIn:
			if err := stock.IncrementStock(ctx, input.ProductID, input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment stock")
			}
		case enums.MovementTypeOut:
			rows, err := stock.DecrementStockGuarded(ctx, input.ProductID, input.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"productId": input.ProductID,
						"available": product.StockQuantity,
						"requested": input.Quantity,
					})
			}
		}

		if err := stock.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMovement(ctx, movement.ID)
}

// GetMovement loads one ledger entry.
func (s *service) GetMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	movement, err := s.stock.FindMovement(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock movement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load movement")
	}
	return movement, nil
}

// UpdateMovement edits the annotation fields only. Rewriting quantity
// or direction would silently desynchronize the counter; corrections go
// through delete-and-rerecord.
func (s *service) UpdateMovement(ctx context.Context, id uuid.UUID, input UpdateMovementInput) (*models.StockMovement, error) {
	if input.Reference == nil && input.Notes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if err := s.stock.UpdateMovementMeta(ctx, id, input.Reference, input.Notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock movement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update movement")
	}
	return s.GetMovement(ctx, id)
}

// DeleteMovement removes an entry and reverses its counter effect.
// Reversing an inbound entry clamps at zero so the counter never goes
// negative when the received stock has already been sold.
func (s *service) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)

		movement, err := stock.FindMovement(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock movement not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load movement")
		}

		switch movement.Type {
		case enums.MovementTypeIn:
			if err := stock.DecrementStockClamped(ctx, movement.ProductID, movement.Quantity); err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reverse inbound movement")
				}
				// Product already deleted; nothing to reverse.
			}
		case enums.MovementTypeOut:
			if err := stock.IncrementStock(ctx, movement.ProductID, movement.Quantity); err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reverse outbound movement")
				}
			}
		}

		if err := stock.DeleteMovement(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete movement")
		}
		return nil
	})
}

// ListMovements pages through the ledger.
func (s *service) ListMovements(ctx context.Context, filter MovementFilter, page pagination.Params) ([]models.StockMovement, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.stock.ListMovements(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements")
	}
	return rows, pagination.MetaFor(page, total), nil
}

// StockLevels pages through the per-product counters.
func (s *service) StockLevels(ctx context.Context, page pagination.Params) ([]StockLevel, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.stock.ListLevels(ctx, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock levels")
	}
	return rows, pagination.MetaFor(page, total), nil
}

// ProductHistory replays the product's ledger oldest-first with the
// running balance after each entry.
func (s *service) ProductHistory(ctx context.Context, productID uuid.UUID) ([]HistoryEntry, error) {
	if _, err := s.stock.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	movements, err := s.stock.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product ledger")
	}

	history := make([]HistoryEntry, 0, len(movements))
	balance := 0
	for _, movement := range movements {
		balance += movement.SignedQuantity()
		history = append(history, HistoryEntry{Movement: movement, Balance: balance})
	}
	return history, nil
}

// VerifyCounter cross-checks the denormalized counter against the
// ledger sum.
func (s *service) VerifyCounter(ctx context.Context, productID uuid.UUID) (*CounterReport, error) {
	product, err := s.stock.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	sum, err := s.stock.SumSigned(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum product ledger")
	}
	return &CounterReport{
		ProductID:  productID,
		Counter:    product.StockQuantity,
		LedgerSum:  sum,
		Consistent: product.StockQuantity == sum,
	}, nil
}
