package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/api/responses"
	"github.com/stefanobartoli/filiera-backend/api/validators"
	order "github.com/stefanobartoli/filiera-backend/internal/orders"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
)

type orderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	VariantID string          `json:"variant_id" validate:"required,uuid4"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderCreateRequest struct {
	SupplierID           string             `json:"supplier_id" validate:"required,uuid4"`
	OrderDate            *time.Time         `json:"order_date,omitempty"`
	ExpectedDeliveryDate time.Time          `json:"expected_delivery_date" validate:"required"`
	Notes                *string            `json:"notes,omitempty"`
	Items                []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderUpdateRequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	QualityControlNotes  *string    `json:"quality_control_notes,omitempty"`
}

type orderStatusRequest struct {
	Status             string     `json:"status" validate:"required"`
	ActualDeliveryDate *time.Time `json:"actual_delivery_date,omitempty"`
}

type gradeItemRequest struct {
	ReceivedQuantity  *int    `json:"received_quantity,omitempty" validate:"omitempty,gte=0"`
	DefectiveQuantity *int    `json:"defective_quantity,omitempty" validate:"omitempty,gte=0"`
	QualityGrade      *string `json:"quality_grade,omitempty"`
}

type milestoneCreateRequest struct {
	Name         string    `json:"name" validate:"required,min=1"`
	Description  string    `json:"description"`
	ExpectedDate time.Time `json:"expected_date" validate:"required"`
	Notes        *string   `json:"notes,omitempty"`
}

type milestoneUpdateRequest struct {
	Status     *string    `json:"status,omitempty"`
	ActualDate *time.Time `json:"actual_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

type returnCreateRequest struct {
	OrderItemID string     `json:"order_item_id" validate:"required,uuid4"`
	Reason      string     `json:"reason" validate:"required"`
	Quantity    int        `json:"quantity" validate:"gt=0"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type returnStatusRequest struct {
	Status       string           `json:"status" validate:"required"`
	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// OrderCreate places a purchase order with its line items.
func OrderCreate(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body orderCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierID, err := validators.ParsePathUUID(body.SupplierID, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]order.ItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			productID, err := validators.ParsePathUUID(item.ProductID, "product_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			variantID, err := validators.ParsePathUUID(item.VariantID, "variant_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, order.ItemInput{
				ProductID: productID,
				VariantID: variantID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		input := order.CreateOrderInput{
			SupplierID:           supplierID,
			ExpectedDeliveryDate: body.ExpectedDeliveryDate,
			Notes:                body.Notes,
			Items:                items,
		}
		if body.OrderDate != nil {
			input.OrderDate = *body.OrderDate
		}

		dto, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OrderGet returns one order with items and milestones.
func OrderGet(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderList pages through orders with optional supplier and status filters.
func OrderList(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter order.ListFilter
		if raw := validators.ParseQueryString(r, "supplier_id"); raw != "" {
			supplierID, err := validators.ParsePathUUID(raw, "supplier_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.SupplierID = &supplierID
		}
		if raw := validators.ParseQueryString(r, "status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}

		result, err := svc.ListOrders(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OrderUpdate mutates header fields on a non-terminal order.
func OrderUpdate(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateOrder(r.Context(), id, order.UpdateOrderInput{
			ExpectedDeliveryDate: body.ExpectedDeliveryDate,
			Notes:                body.Notes,
			QualityControlNotes:  body.QualityControlNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderDelete removes a draft order.
func OrderDelete(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// OrderUpdateStatus advances the order along its lifecycle.
func OrderUpdateStatus(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), id, order.StatusInput{
			Status:             status,
			ActualDeliveryDate: body.ActualDeliveryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderGradeItem records inspection results on a line item.
func OrderGradeItem(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body gradeItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := order.GradeInput{
			ReceivedQuantity:  body.ReceivedQuantity,
			DefectiveQuantity: body.DefectiveQuantity,
		}
		if body.QualityGrade != nil {
			grade, err := enums.ParseQualityGrade(*body.QualityGrade)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quality grade"))
				return
			}
			input.QualityGrade = &grade
		}

		dto, err := svc.GradeItem(r.Context(), orderID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderAddMilestone schedules a production milestone.
func OrderAddMilestone(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body milestoneCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddMilestone(r.Context(), orderID, order.MilestoneInput{
			Name:         body.Name,
			Description:  body.Description,
			ExpectedDate: body.ExpectedDate,
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OrderUpdateMilestone progresses a milestone through its states.
func OrderUpdateMilestone(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		milestoneID, err := validators.ParsePathUUID(chi.URLParam(r, "milestoneID"), "milestoneID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body milestoneUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := order.UpdateMilestoneInput{
			ActualDate: body.ActualDate,
			Notes:      body.Notes,
		}
		if body.Status != nil {
			status, err := enums.ParseMilestoneStatus(*body.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid milestone status"))
				return
			}
			input.Status = &status
		}

		dto, err := svc.UpdateMilestone(r.Context(), orderID, milestoneID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderCreateReturn opens a return for a delivered line item.
func OrderCreateReturn(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body returnCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathUUID(body.OrderItemID, "order_item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reason, err := enums.ParseReturnReason(body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid return reason"))
			return
		}

		input := order.ReturnInput{
			OrderItemID: itemID,
			Reason:      reason,
			Quantity:    body.Quantity,
			Notes:       body.Notes,
		}
		if body.ReturnDate != nil {
			input.ReturnDate = *body.ReturnDate
		}

		dto, err := svc.CreateReturn(r.Context(), orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OrderUpdateReturnStatus advances a return through its workflow.
func OrderUpdateReturnStatus(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		returnID, err := validators.ParsePathUUID(chi.URLParam(r, "returnID"), "returnID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body returnStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseReturnStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid return status"))
			return
		}

		dto, err := svc.UpdateReturnStatus(r.Context(), orderID, returnID, order.ReturnStatusInput{
			Status:       status,
			RefundAmount: body.RefundAmount,
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OrderListReturns lists the returns raised against an order.
func OrderListReturns(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		returns, err := svc.ListReturns(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"returns": returns})
	}
}
