package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	order "github.com/stefanobartoli/filiera-backend/internal/orders"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

type stubOrderService struct {
	created     *order.CreateOrderInput
	statusInput *order.StatusInput
	dto         *order.OrderDTO
}

func (s *stubOrderService) CreateOrder(_ context.Context, input order.CreateOrderInput) (*order.OrderDTO, error) {
	s.created = &input
	return s.dto, nil
}

func (s *stubOrderService) GetOrder(context.Context, uuid.UUID) (*order.OrderDTO, error) {
	return s.dto, nil
}

func (s *stubOrderService) ListOrders(context.Context, order.ListFilter, pagination.Params) (*order.ListResult, error) {
	return &order.ListResult{}, nil
}

func (s *stubOrderService) UpdateOrder(context.Context, uuid.UUID, order.UpdateOrderInput) (*order.OrderDTO, error) {
	return s.dto, nil
}

func (s *stubOrderService) DeleteOrder(context.Context, uuid.UUID) error { return nil }

func (s *stubOrderService) UpdateStatus(_ context.Context, _ uuid.UUID, input order.StatusInput) (*order.OrderDTO, error) {
	s.statusInput = &input
	return s.dto, nil
}

func (s *stubOrderService) GradeItem(context.Context, uuid.UUID, uuid.UUID, order.GradeInput) (*order.ItemDTO, error) {
	return &order.ItemDTO{}, nil
}

func (s *stubOrderService) AddMilestone(context.Context, uuid.UUID, order.MilestoneInput) (*order.MilestoneDTO, error) {
	return &order.MilestoneDTO{}, nil
}

func (s *stubOrderService) UpdateMilestone(context.Context, uuid.UUID, uuid.UUID, order.UpdateMilestoneInput) (*order.MilestoneDTO, error) {
	return &order.MilestoneDTO{}, nil
}

func (s *stubOrderService) CreateReturn(context.Context, uuid.UUID, order.ReturnInput) (*order.ReturnDTO, error) {
	return &order.ReturnDTO{}, nil
}

func (s *stubOrderService) UpdateReturnStatus(context.Context, uuid.UUID, uuid.UUID, order.ReturnStatusInput) (*order.ReturnDTO, error) {
	return &order.ReturnDTO{}, nil
}

func (s *stubOrderService) ListReturns(context.Context, uuid.UUID) ([]order.ReturnDTO, error) {
	return nil, nil
}

func TestOrderCreate(t *testing.T) {
	logg := testLogger()
	supplierID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()

	t.Run("creates order", func(t *testing.T) {
		svc := &stubOrderService{dto: &order.OrderDTO{ID: uuid.New(), OrderNumber: "ORD-2026-0001"}}
		body := `{
			"supplier_id": "` + supplierID.String() + `",
			"expected_delivery_date": "2026-10-15T00:00:00Z",
			"items": [
				{"product_id": "` + productID.String() + `", "variant_id": "` + variantID.String() + `", "quantity": 120, "unit_price": "14.50"}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		OrderCreate(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.created == nil {
			t.Fatal("service did not receive create input")
		}
		if svc.created.SupplierID != supplierID {
			t.Fatalf("expected supplier %s, got %s", supplierID, svc.created.SupplierID)
		}
		if len(svc.created.Items) != 1 || svc.created.Items[0].Quantity != 120 {
			t.Fatalf("unexpected items: %+v", svc.created.Items)
		}
		if !svc.created.Items[0].UnitPrice.Equal(decimal.RequireFromString("14.50")) {
			t.Fatalf("unexpected unit price %s", svc.created.Items[0].UnitPrice)
		}
	})

	t.Run("rejects empty items", func(t *testing.T) {
		svc := &stubOrderService{}
		body := `{"supplier_id": "` + supplierID.String() + `", "expected_delivery_date": "2026-10-15T00:00:00Z", "items": []}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		OrderCreate(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.created != nil {
			t.Fatal("service should not be called on validation failure")
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		svc := &stubOrderService{}
		body := `{"supplier_id": "` + supplierID.String() + `", "total_amount": "999.00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		OrderCreate(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestOrderUpdateStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("transitions status", func(t *testing.T) {
		svc := &stubOrderService{dto: &order.OrderDTO{ID: orderID, Status: "consegnato"}}
		delivered := time.Date(2026, time.October, 12, 14, 0, 0, 0, time.UTC)
		body := `{"status": "consegnato", "actual_delivery_date": "` + delivered.Format(time.RFC3339) + `"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", strings.NewReader(body))
		req = withURLParam(req, "orderID", orderID.String())
		rec := httptest.NewRecorder()
		OrderUpdateStatus(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.statusInput == nil {
			t.Fatal("service did not receive status input")
		}
		if string(svc.statusInput.Status) != "consegnato" {
			t.Fatalf("unexpected status %q", svc.statusInput.Status)
		}
		if svc.statusInput.ActualDeliveryDate == nil || !svc.statusInput.ActualDeliveryDate.Equal(delivered) {
			t.Fatalf("unexpected delivery date %v", svc.statusInput.ActualDeliveryDate)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := &stubOrderService{}
		body := `{"status": "teleported"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", strings.NewReader(body))
		req = withURLParam(req, "orderID", orderID.String())
		rec := httptest.NewRecorder()
		OrderUpdateStatus(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.statusInput != nil {
			t.Fatal("service should not be called with unparseable status")
		}
	})
}
