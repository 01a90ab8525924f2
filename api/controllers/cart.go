package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/api/middleware"
	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/cart"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// CartController serves the caller's shopping cart.
type CartController struct {
	cart cart.Service
}

// NewCartController wires the controller to its service.
func NewCartController(cartSvc cart.Service) *CartController {
	return &CartController{cart: cartSvc}
}

func callerID(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}

// Get returns the caller's active cart, creating one on first touch.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	view, err := c.cart.GetCart(r.Context(), userID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", view)
}

type addItemPayload struct {
	ProductID        uuid.UUID        `json:"productId" validate:"required"`
	Quantity         int              `json:"quantity" validate:"required,min=1"`
	Size             *string          `json:"size,omitempty"`
	Type             *string          `json:"type,omitempty"`
	Customization    *string          `json:"customization,omitempty"`
	CustomizationFee *decimal.Decimal `json:"customizationFee,omitempty"`
}

// AddItem adds or merges a line in the caller's cart.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload addItemPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	view, err := c.cart.AddItem(r.Context(), userID, cart.AddItemInput{
		ProductID:        payload.ProductID,
		Quantity:         payload.Quantity,
		Size:             payload.Size,
		Type:             payload.Type,
		Customization:    payload.Customization,
		CustomizationFee: payload.CustomizationFee,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "item added", view)
}

type updateQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	itemID, err := validators.UUIDParam(r, "itemId")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload updateQuantityPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	view, err := c.cart.UpdateItemQuantity(r.Context(), userID, itemID, payload.Quantity)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "cart updated", view)
}

// RemoveItem deletes a line from the caller's cart.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	itemID, err := validators.UUIDParam(r, "itemId")
	if err != nil {
		responses.Error(w, err)
		return
	}

	view, err := c.cart.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "item removed", view)
}

// Clear empties the caller's cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.cart.ClearCart(r.Context(), userID); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "cart cleared", nil)
}
