package enums

import "testing"

func TestOrderStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusCancelled, true},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusPending, OrderStatus("bogus"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestPaymentStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusPaid, PaymentStatusRefunded, true},
		{PaymentStatusPaid, PaymentStatusFailed, false},
		{PaymentStatusFailed, PaymentStatusPaid, true},
		{PaymentStatusRefunded, PaymentStatusPaid, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestMovementTypeSign(t *testing.T) {
	if MovementTypeIn.Sign() != 1 {
		t.Fatal("in should be +1")
	}
	if MovementTypeOut.Sign() != -1 {
		t.Fatal("out should be -1")
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	if _, err := ParseOrderStatus("unknown"); err == nil {
		t.Fatal("expected error for unknown order status")
	}
	if _, err := ParseMovementType("sideways"); err == nil {
		t.Fatal("expected error for unknown movement type")
	}
	if _, err := ParseProductSize("XXS"); err == nil {
		t.Fatal("expected error for unknown size")
	}
}
