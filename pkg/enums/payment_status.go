package enums

import "fmt"

// PaymentStatus tracks the payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving from p to next is legal.
// Refunds are only reachable from paid.
func (p PaymentStatus) CanTransition(next PaymentStatus) bool {
	if !p.IsValid() || !next.IsValid() {
		return false
	}
	if next == p {
		return true
	}
	switch p {
	case PaymentStatusPending:
		return next == PaymentStatusPaid || next == PaymentStatusFailed
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	case PaymentStatusFailed:
		return next == PaymentStatusPaid
	default:
		return false
	}
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
