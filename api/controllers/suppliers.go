package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/api/responses"
	"github.com/stefanobartoli/filiera-backend/api/validators"
	"github.com/stefanobartoli/filiera-backend/internal/suppliers"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

type supplierCreateRequest struct {
	Name            string        `json:"name" validate:"required,min=1"`
	Email           string        `json:"email" validate:"required,email"`
	Phone           string        `json:"phone"`
	Address         types.Address `json:"address"`
	Specializations []string      `json:"specializations"`
	LeadTimeDays    int           `json:"lead_time_days" validate:"gte=0"`
	PaymentTerms    string        `json:"payment_terms"`
	Certifications  []string      `json:"certifications"`
	Notes           *string       `json:"notes,omitempty"`
}

func (r supplierCreateRequest) toInput() supplier.CreateSupplierInput {
	return supplier.CreateSupplierInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		Specializations: r.Specializations,
		LeadTimeDays:    r.LeadTimeDays,
		PaymentTerms:    r.PaymentTerms,
		Certifications:  r.Certifications,
		Notes:           r.Notes,
	}
}

type supplierUpdateRequest struct {
	Name            *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	Email           *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string        `json:"phone,omitempty"`
	Address         *types.Address `json:"address,omitempty"`
	Specializations *[]string      `json:"specializations,omitempty"`
	LeadTimeDays    *int           `json:"lead_time_days,omitempty" validate:"omitempty,gte=0"`
	QualityRating   *float64       `json:"quality_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	PaymentTerms    *string        `json:"payment_terms,omitempty"`
	Certifications  *[]string      `json:"certifications,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
	IsActive        *bool          `json:"is_active,omitempty"`
}

func (r supplierUpdateRequest) toInput() supplier.UpdateSupplierInput {
	return supplier.UpdateSupplierInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		Specializations: r.Specializations,
		LeadTimeDays:    r.LeadTimeDays,
		QualityRating:   r.QualityRating,
		PaymentTerms:    r.PaymentTerms,
		Certifications:  r.Certifications,
		Notes:           r.Notes,
		IsActive:        r.IsActive,
	}
}

type contractRequest struct {
	Type               string              `json:"type" validate:"required"`
	StartDate          time.Time           `json:"start_date" validate:"required"`
	EndDate            time.Time           `json:"end_date" validate:"required"`
	TermsAndConditions string              `json:"terms_and_conditions"`
	MinimumOrderValue  *decimal.Decimal    `json:"minimum_order_value,omitempty"`
	DiscountTiers      types.ContractTiers `json:"discount_tiers,omitempty"`
	PenaltyTerms       *string             `json:"penalty_terms,omitempty"`
	QualityStandards   *string             `json:"quality_standards,omitempty"`
	DeliveryTerms      string              `json:"delivery_terms"`
	RenewalDate        *time.Time          `json:"renewal_date,omitempty"`
}

type ratingRequest struct {
	OrderID            string     `json:"order_id" validate:"required,uuid4"`
	RatingDate         *time.Time `json:"rating_date,omitempty"`
	OverallRating      float64    `json:"overall_rating" validate:"gte=0,lte=5"`
	QualityScore       float64    `json:"quality_score" validate:"gte=0,lte=5"`
	DeliveryScore      float64    `json:"delivery_score" validate:"gte=0,lte=5"`
	CommunicationScore float64    `json:"communication_score" validate:"gte=0,lte=5"`
	PriceScore         float64    `json:"price_score" validate:"gte=0,lte=5"`
	Comments           *string    `json:"comments,omitempty"`
	RatedBy            string     `json:"rated_by" validate:"required"`
}

// SupplierCreate registers a new supplier.
func SupplierCreate(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		var body supplierCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateSupplier(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// SupplierGet returns one supplier with contracts and rating history.
func SupplierGet(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetSupplier(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SupplierList pages through suppliers newest first.
func SupplierList(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListSuppliers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SupplierUpdate mutates supplier header fields.
func SupplierUpdate(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body supplierUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateSupplier(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SupplierDelete removes a supplier without open orders.
func SupplierDelete(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSupplier(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// SupplierAddContract attaches a contract to the supplier.
func SupplierAddContract(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body contractRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		contractType, err := enums.ParseContractType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contract type"))
			return
		}

		dto, err := svc.AddContract(r.Context(), id, supplier.ContractInput{
			Type:               contractType,
			StartDate:          body.StartDate,
			EndDate:            body.EndDate,
			TermsAndConditions: body.TermsAndConditions,
			MinimumOrderValue:  body.MinimumOrderValue,
			DiscountTiers:      body.DiscountTiers,
			PenaltyTerms:       body.PenaltyTerms,
			QualityStandards:   body.QualityStandards,
			DeliveryTerms:      body.DeliveryTerms,
			RenewalDate:        body.RenewalDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// SupplierRate records a post-order evaluation and refreshes the rolling rating.
func SupplierRate(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ratingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(body.OrderID, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := supplier.RatingInput{
			OrderID:            orderID,
			OverallRating:      body.OverallRating,
			QualityScore:       body.QualityScore,
			DeliveryScore:      body.DeliveryScore,
			CommunicationScore: body.CommunicationScore,
			PriceScore:         body.PriceScore,
			Comments:           body.Comments,
			RatedBy:            body.RatedBy,
		}
		if body.RatingDate != nil {
			input.RatingDate = *body.RatingDate
		}

		dto, err := svc.RateSupplier(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// SupplierPerformance serves the cached performance snapshot.
func SupplierPerformance(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "supplierID"), "supplierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Performance(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
