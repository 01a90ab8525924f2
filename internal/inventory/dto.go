package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
)

// RecordMovementInput carries a validated ledger entry.
type RecordMovementInput struct {
	ProductID  uuid.UUID
	Quantity   int
	Type       string
	UnitPrice  *decimal.Decimal
	Reference  *string
	Notes      *string
	OccurredAt *time.Time
}

// UpdateMovementInput mutates the annotation fields of an entry. The
// quantity, direction, and product are immutable once written.
type UpdateMovementInput struct {
	Reference *string
	Notes     *string
}

// HistoryEntry is one ledger row with the running balance after it was
// applied.
type HistoryEntry struct {
	Movement models.StockMovement `json:"movement"`
	Balance  int                  `json:"balance"`
}

// CounterReport compares the denormalized counter against the ledger.
type CounterReport struct {
	ProductID  uuid.UUID `json:"productId"`
	Counter    int       `json:"counter"`
	LedgerSum  int       `json:"ledgerSum"`
	Consistent bool      `json:"consistent"`
}
