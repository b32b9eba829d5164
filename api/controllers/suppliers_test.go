package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	supplier "github.com/stefanobartoli/filiera-backend/internal/suppliers"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
)

type stubSupplierService struct {
	created   *supplier.CreateSupplierInput
	supplier  *supplier.SupplierDTO
	getErr    error
	createErr error
}

func (s *stubSupplierService) CreateSupplier(_ context.Context, input supplier.CreateSupplierInput) (*supplier.SupplierDTO, error) {
	s.created = &input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.supplier, nil
}

func (s *stubSupplierService) GetSupplier(context.Context, uuid.UUID) (*supplier.SupplierDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.supplier, nil
}

func (s *stubSupplierService) ListSuppliers(context.Context, pagination.Params) (*supplier.ListResult, error) {
	return &supplier.ListResult{Suppliers: []supplier.SupplierDTO{}}, nil
}

func (s *stubSupplierService) UpdateSupplier(context.Context, uuid.UUID, supplier.UpdateSupplierInput) (*supplier.SupplierDTO, error) {
	return s.supplier, nil
}

func (s *stubSupplierService) DeleteSupplier(context.Context, uuid.UUID) error { return nil }

func (s *stubSupplierService) AddContract(context.Context, uuid.UUID, supplier.ContractInput) (*supplier.SupplierDTO, error) {
	return s.supplier, nil
}

func (s *stubSupplierService) RateSupplier(context.Context, uuid.UUID, supplier.RatingInput) (*supplier.SupplierDTO, error) {
	return s.supplier, nil
}

func (s *stubSupplierService) Performance(context.Context, uuid.UUID) (*supplier.PerformanceDTO, error) {
	return &supplier.PerformanceDTO{}, nil
}

func (s *stubSupplierService) RefreshPerformance(context.Context, uuid.UUID) (*supplier.PerformanceDTO, error) {
	return &supplier.PerformanceDTO{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestSupplierCreate(t *testing.T) {
	logg := testLogger()

	t.Run("creates supplier", func(t *testing.T) {
		svc := &stubSupplierService{supplier: &supplier.SupplierDTO{ID: uuid.New(), Name: "Lanificio Rossi"}}
		body := `{
			"name": "Lanificio Rossi",
			"email": "orders@lanificiorossi.it",
			"phone": "+39 015 123456",
			"address": {"street": "Via Roma 1", "city": "Biella", "zip_code": "13900", "country": "IT"},
			"specializations": ["wool", "cashmere"],
			"lead_time_days": 21,
			"payment_terms": "NET30"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suppliers", strings.NewReader(body))
		rec := httptest.NewRecorder()
		SupplierCreate(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.created == nil || svc.created.Name != "Lanificio Rossi" {
			t.Fatalf("service did not receive create input: %+v", svc.created)
		}
		if svc.created.LeadTimeDays != 21 {
			t.Fatalf("expected lead time 21, got %d", svc.created.LeadTimeDays)
		}
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		svc := &stubSupplierService{}
		body := `{"name": "Lanificio Rossi", "email": "not-an-email", "lead_time_days": 21, "payment_terms": "NET30"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suppliers", strings.NewReader(body))
		rec := httptest.NewRecorder()
		SupplierCreate(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if svc.created != nil {
			t.Fatal("service should not be called on validation failure")
		}
	})

	t.Run("nil service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/suppliers", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		SupplierCreate(nil, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestSupplierGet(t *testing.T) {
	logg := testLogger()

	t.Run("returns supplier", func(t *testing.T) {
		id := uuid.New()
		svc := &stubSupplierService{supplier: &supplier.SupplierDTO{ID: id, Name: "Lanificio Rossi"}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/"+id.String(), nil)
		req = withURLParam(req, "supplierID", id.String())
		rec := httptest.NewRecorder()
		SupplierGet(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var envelope struct {
			Data supplier.SupplierDTO `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.ID != id {
			t.Fatalf("expected supplier %s, got %s", id, envelope.Data.ID)
		}
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/not-a-uuid", nil)
		req = withURLParam(req, "supplierID", "not-a-uuid")
		rec := httptest.NewRecorder()
		SupplierGet(&stubSupplierService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
