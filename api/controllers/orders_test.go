package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	internalorders "github.com/sokastore/sokastore-backend/internal/orders"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

type stubOrderService struct {
	createFn        func(ctx context.Context, userID uuid.UUID, input internalorders.CreateOrderInput) (*models.Order, error)
	getFn           func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	getUserFn       func(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	listUserFn      func(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, pagination.Meta, error)
	listFn          func(ctx context.Context, filter internalorders.OrderFilter, page pagination.Params) ([]models.Order, pagination.Meta, error)
	updateStatusFn  func(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error)
	updatePaymentFn func(ctx context.Context, orderID uuid.UUID, input internalorders.UpdatePaymentInput) (*models.Order, error)
	cancelFn        func(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	deleteFn        func(ctx context.Context, orderID uuid.UUID) error
}

func (s stubOrderService) CreateOrder(ctx context.Context, userID uuid.UUID, input internalorders.CreateOrderInput) (*models.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, input)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, orderID)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if s.getUserFn != nil {
		return s.getUserFn(ctx, userID, orderID)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, pagination.Meta, error) {
	if s.listUserFn != nil {
		return s.listUserFn(ctx, userID, page)
	}
	return nil, pagination.Meta{}, nil
}

func (s stubOrderService) ListOrders(ctx context.Context, filter internalorders.OrderFilter, page pagination.Params) ([]models.Order, pagination.Meta, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, page)
	}
	return nil, pagination.Meta{}, nil
}

func (s stubOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, orderID, status)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) UpdatePayment(ctx context.Context, orderID uuid.UUID, input internalorders.UpdatePaymentInput) (*models.Order, error) {
	if s.updatePaymentFn != nil {
		return s.updatePaymentFn(ctx, orderID, input)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, userID, orderID)
	}
	return &models.Order{}, nil
}

func (s stubOrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, orderID)
	}
	return nil
}

func TestOrdersCheckout(t *testing.T) {
	userID := uuid.New()
	svc := stubOrderService{
		createFn: func(ctx context.Context, uid uuid.UUID, input internalorders.CreateOrderInput) (*models.Order, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if input.CustomerName != "Amina Odhiambo" || input.PaymentMethod != "mpesa" {
				t.Fatalf("unexpected input %+v", input)
			}
			return &models.Order{OrderNumber: "ORD-1700000000000-ABC123"}, nil
		},
	}

	body := `{"customerName":"Amina Odhiambo","customerPhone":"+254700000000","paymentMethod":"mpesa"}`
	resp := httptest.NewRecorder()
	NewOrderController(svc).Checkout(resp, authedRequest(http.MethodPost, "/", body, userID))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber == "" {
		t.Fatal("expected order number in response")
	}
}

func TestOrdersCheckout_EmptyCart(t *testing.T) {
	svc := stubOrderService{
		createFn: func(ctx context.Context, uid uuid.UUID, input internalorders.CreateOrderInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		},
	}

	body := `{"customerName":"Amina","customerPhone":"+254700000000","paymentMethod":"mpesa"}`
	resp := httptest.NewRecorder()
	NewOrderController(svc).Checkout(resp, authedRequest(http.MethodPost, "/", body, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersCheckout_MissingFields(t *testing.T) {
	resp := httptest.NewRecorder()
	NewOrderController(stubOrderService{}).Checkout(resp,
		authedRequest(http.MethodPost, "/", `{"customerPhone":"+254700000000"}`, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersGetMine_NotFound(t *testing.T) {
	orderID := uuid.New()
	svc := stubOrderService{
		getUserFn: func(ctx context.Context, uid, oid uuid.UUID) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	req := authedRequest(http.MethodGet, "/"+orderID.String(), "", uuid.New())
	req = withURLParam(req, "id", orderID.String())
	resp := httptest.NewRecorder()
	NewOrderController(svc).GetMine(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrdersAdminList_Filters(t *testing.T) {
	svc := stubOrderService{
		listFn: func(ctx context.Context, filter internalorders.OrderFilter, page pagination.Params) ([]models.Order, pagination.Meta, error) {
			if filter.OrderStatus == nil || *filter.OrderStatus != enums.OrderStatusShipped {
				t.Fatalf("expected shipped filter, got %v", filter.OrderStatus)
			}
			if filter.PaymentStatus == nil || *filter.PaymentStatus != enums.PaymentStatusPaid {
				t.Fatalf("expected paid filter, got %v", filter.PaymentStatus)
			}
			return []models.Order{{}}, pagination.MetaFor(page, 1), nil
		},
	}

	req := authedRequest(http.MethodGet, "/?status=shipped&payment_status=paid", "", uuid.New())
	resp := httptest.NewRecorder()
	NewOrderController(svc).List(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrdersAdminList_BadStatusFilter(t *testing.T) {
	req := authedRequest(http.MethodGet, "/?status=teleported", "", uuid.New())
	resp := httptest.NewRecorder()
	NewOrderController(stubOrderService{}).List(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersUpdateStatus(t *testing.T) {
	orderID := uuid.New()
	svc := stubOrderService{
		updateStatusFn: func(ctx context.Context, oid uuid.UUID, status string) (*models.Order, error) {
			if oid != orderID || status != "shipped" {
				t.Fatalf("unexpected call order=%s status=%s", oid, status)
			}
			return &models.Order{OrderStatus: enums.OrderStatusShipped}, nil
		},
	}

	req := authedRequest(http.MethodPut, "/"+orderID.String()+"/status", `{"status":"shipped"}`, uuid.New())
	req = withURLParam(req, "id", orderID.String())
	resp := httptest.NewRecorder()
	NewOrderController(svc).UpdateStatus(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrdersCancel_AfterShipment(t *testing.T) {
	orderID := uuid.New()
	svc := stubOrderService{
		cancelFn: func(ctx context.Context, uid, oid uuid.UUID) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already shipped")
		},
	}

	req := authedRequest(http.MethodPost, "/"+orderID.String()+"/cancel", "", uuid.New())
	req = withURLParam(req, "id", orderID.String())
	resp := httptest.NewRecorder()
	NewOrderController(svc).Cancel(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersUpdatePayment(t *testing.T) {
	orderID := uuid.New()
	txn := "MPESA-XYZ"
	svc := stubOrderService{
		updatePaymentFn: func(ctx context.Context, oid uuid.UUID, input internalorders.UpdatePaymentInput) (*models.Order, error) {
			if input.Status != "paid" || input.TransactionID == nil || *input.TransactionID != txn {
				t.Fatalf("unexpected input %+v", input)
			}
			if input.OrderStatus == nil || *input.OrderStatus != "confirmed" {
				t.Fatalf("expected confirmed order status, got %v", input.OrderStatus)
			}
			return &models.Order{PaymentStatus: enums.PaymentStatusPaid}, nil
		},
	}

	req := authedRequest(http.MethodPut, "/"+orderID.String()+"/payment",
		`{"status":"paid","transactionId":"MPESA-XYZ","orderStatus":"confirmed"}`, uuid.New())
	req = withURLParam(req, "id", orderID.String())
	resp := httptest.NewRecorder()
	NewOrderController(svc).UpdatePayment(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
