package orders

import (
	"github.com/shopspring/decimal"
)

// CreateOrderInput carries a validated checkout payload. Amounts are
// never taken from the client; only the delivery fee is, because zone
// pricing is negotiated off-platform.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	DeliveryType    string
	DeliveryZone    *string
	DeliveryAddress *string
	DeliveryFee     *decimal.Decimal
	PaymentMethod   string
	PaymentPhone    *string
	Notes           *string
}

// UpdatePaymentInput moves an order's payment state. OrderStatus, when
// present, advances fulfillment in the same update; a payment marked
// paid on its own never moves the order forward.
type UpdatePaymentInput struct {
	Status        string
	TransactionID *string
	OrderStatus   *string
}
