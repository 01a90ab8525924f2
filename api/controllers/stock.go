package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/inventory"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// StockController serves the admin inventory ledger.
type StockController struct {
	inventory inventory.Service
}

// NewStockController wires the controller to its service.
func NewStockController(inventorySvc inventory.Service) *StockController {
	return &StockController{inventory: inventorySvc}
}

type movementPayload struct {
	ProductID  uuid.UUID        `json:"productId" validate:"required"`
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	Type       string           `json:"type" validate:"required"`
	UnitPrice  *decimal.Decimal `json:"unitPrice,omitempty"`
	Reference  *string          `json:"reference,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	OccurredAt *time.Time       `json:"occurredAt,omitempty"`
}

// RecordMovement appends a ledger entry and adjusts the counter.
func (c *StockController) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var payload movementPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	movement, err := c.inventory.RecordMovement(r.Context(), inventory.RecordMovementInput{
		ProductID:  payload.ProductID,
		Quantity:   payload.Quantity,
		Type:       payload.Type,
		UnitPrice:  payload.UnitPrice,
		Reference:  payload.Reference,
		Notes:      payload.Notes,
		OccurredAt: payload.OccurredAt,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "movement recorded", movement)
}

// GetMovement loads one ledger entry.
func (c *StockController) GetMovement(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	movement, err := c.inventory.GetMovement(r.Context(), id)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", movement)
}

type movementUpdatePayload struct {
	Reference *string `json:"reference,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateMovement edits the annotation fields of an entry.
func (c *StockController) UpdateMovement(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload movementUpdatePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	movement, err := c.inventory.UpdateMovement(r.Context(), id, inventory.UpdateMovementInput{
		Reference: payload.Reference,
		Notes:     payload.Notes,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "movement updated", movement)
}

// DeleteMovement removes an entry and reverses its counter effect.
func (c *StockController) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	id, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.inventory.DeleteMovement(r.Context(), id); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "movement deleted", nil)
}

// ListMovements pages through the ledger with product, type, and date
// range filters.
func (c *StockController) ListMovements(w http.ResponseWriter, r *http.Request) {
	var filter inventory.MovementFilter
	if raw := validators.QueryString(r, "product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product_id"))
			return
		}
		filter.ProductID = &id
	}
	filter.Reference = validators.QueryString(r, "reference")
	if raw := validators.QueryString(r, "type"); raw != "" {
		movementType, err := enums.ParseMovementType(raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid type filter"))
			return
		}
		filter.Type = &movementType
	}
	if raw := validators.QueryString(r, "from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "from must be RFC 3339"))
			return
		}
		filter.From = &from
	}
	if raw := validators.QueryString(r, "to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "to must be RFC 3339"))
			return
		}
		filter.To = &to
	}

	rows, meta, err := c.inventory.ListMovements(r.Context(), filter, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// Levels pages through per-product stock counters.
func (c *StockController) Levels(w http.ResponseWriter, r *http.Request) {
	rows, meta, err := c.inventory.StockLevels(r.Context(), validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// History returns a product's full ledger with running balances.
func (c *StockController) History(w http.ResponseWriter, r *http.Request) {
	productID, err := validators.UUIDParam(r, "productId")
	if err != nil {
		responses.Error(w, err)
		return
	}
	entries, err := c.inventory.ProductHistory(r.Context(), productID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", entries)
}

// Verify compares a product's counter against the ledger sum.
func (c *StockController) Verify(w http.ResponseWriter, r *http.Request) {
	productID, err := validators.UUIDParam(r, "productId")
	if err != nil {
		responses.Error(w, err)
		return
	}
	report, err := c.inventory.VerifyCounter(r.Context(), productID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", report)
}
