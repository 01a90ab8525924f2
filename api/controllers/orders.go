package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/orders"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// OrderController serves checkout and order tracking for customers plus
// the admin fulfilment surface.
type OrderController struct {
	orders orders.Service
}

// NewOrderController wires the controller to its service.
func NewOrderController(ordersSvc orders.Service) *OrderController {
	return &OrderController{orders: ordersSvc}
}

type checkoutPayload struct {
	CustomerName    string           `json:"customerName" validate:"required"`
	CustomerPhone   string           `json:"customerPhone" validate:"required"`
	CustomerEmail   *string          `json:"customerEmail,omitempty" validate:"omitempty,email"`
	DeliveryType    string           `json:"deliveryType,omitempty"`
	DeliveryZone    *string          `json:"deliveryZone,omitempty"`
	DeliveryAddress *string          `json:"deliveryAddress,omitempty"`
	DeliveryFee     *decimal.Decimal `json:"deliveryFee,omitempty"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required"`
	PaymentPhone    *string          `json:"paymentPhone,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// Checkout converts the caller's active cart into an order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload checkoutPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	order, err := c.orders.CreateOrder(r.Context(), userID, orders.CreateOrderInput{
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerEmail:   payload.CustomerEmail,
		DeliveryType:    payload.DeliveryType,
		DeliveryZone:    payload.DeliveryZone,
		DeliveryAddress: payload.DeliveryAddress,
		DeliveryFee:     payload.DeliveryFee,
		PaymentMethod:   payload.PaymentMethod,
		PaymentPhone:    payload.PaymentPhone,
		Notes:           payload.Notes,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "order placed", order)
}

// ListMine pages through the caller's own orders.
func (c *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	rows, meta, err := c.orders.ListUserOrders(r.Context(), userID, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// GetMine loads one of the caller's orders. Orders belonging to other
// users are indistinguishable from missing ones.
func (c *OrderController) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	orderID, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	order, err := c.orders.GetUserOrder(r.Context(), userID, orderID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", order)
}

// Cancel lets the caller cancel an order that has not shipped.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		responses.Error(w, err)
		return
	}
	orderID, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	order, err := c.orders.CancelOrder(r.Context(), userID, orderID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "order cancelled", order)
}

// List is the admin listing with status, payment, and search filters.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	filter := orders.OrderFilter{
		Search: validators.QueryString(r, "search"),
	}
	if raw := validators.QueryString(r, "status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
			return
		}
		filter.OrderStatus = &status
	}
	if raw := validators.QueryString(r, "payment_status"); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment_status filter"))
			return
		}
		filter.PaymentStatus = &status
	}

	rows, meta, err := c.orders.ListOrders(r.Context(), filter, validators.PageParams(r))
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OKPaged(w, "", rows, meta)
}

// Get is the admin single-order lookup.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	order, err := c.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", order)
}

type orderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus advances an order through its fulfilment states.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload orderStatusPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	order, err := c.orders.UpdateOrderStatus(r.Context(), orderID, payload.Status)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "order status updated", order)
}

type paymentPayload struct {
	Status        string  `json:"status" validate:"required"`
	TransactionID *string `json:"transactionId,omitempty"`
	OrderStatus   *string `json:"orderStatus,omitempty"`
}

// UpdatePayment records a payment state change from the payment desk.
func (c *OrderController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	var payload paymentPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}
	order, err := c.orders.UpdatePayment(r.Context(), orderID, orders.UpdatePaymentInput{
		Status:        payload.Status,
		TransactionID: payload.TransactionID,
		OrderStatus:   payload.OrderStatus,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "payment updated", order)
}

// Delete removes an order permanently.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := validators.UUIDParam(r, "id")
	if err != nil {
		responses.Error(w, err)
		return
	}
	if err := c.orders.DeleteOrder(r.Context(), orderID); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "order deleted", nil)
}
