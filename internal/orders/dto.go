package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
)

// OrderDTO is the client payload for a purchase order.
type OrderDTO struct {
	ID                   uuid.UUID       `json:"id"`
	OrderNumber          string          `json:"order_number"`
	SupplierID           uuid.UUID       `json:"supplier_id"`
	Status               string          `json:"status"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	Notes                *string         `json:"notes,omitempty"`
	QualityControlNotes  *string         `json:"quality_control_notes,omitempty"`
	Items                []ItemDTO       `json:"items,omitempty"`
	Milestones           []MilestoneDTO  `json:"milestones,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ItemDTO is one ordered variant line.
type ItemDTO struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	VariantID         uuid.UUID       `json:"variant_id"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	ReceivedQuantity  *int            `json:"received_quantity,omitempty"`
	DefectiveQuantity *int            `json:"defective_quantity,omitempty"`
	QualityGrade      *string         `json:"quality_grade,omitempty"`
}

// MilestoneDTO is one production step.
type MilestoneDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ExpectedDate time.Time  `json:"expected_date"`
	ActualDate   *time.Time `json:"actual_date,omitempty"`
	Status       string     `json:"status"`
	Notes        *string    `json:"notes,omitempty"`
}

// ReturnDTO is one merchandise return.
type ReturnDTO struct {
	ID           uuid.UUID        `json:"id"`
	OrderID      uuid.UUID        `json:"order_id"`
	OrderItemID  uuid.UUID        `json:"order_item_id"`
	Reason       string           `json:"reason"`
	Quantity     int              `json:"quantity"`
	ReturnDate   time.Time        `json:"return_date"`
	Status       string           `json:"status"`
	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// NewOrderDTO maps the model into the client payload.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		Status:               string(order.Status),
		TotalAmount:          order.TotalAmount,
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		ActualDeliveryDate:   order.ActualDeliveryDate,
		Notes:                order.Notes,
		QualityControlNotes:  order.QualityControlNotes,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
	for i := range order.Items {
		dto.Items = append(dto.Items, *NewItemDTO(&order.Items[i]))
	}
	for i := range order.Milestones {
		dto.Milestones = append(dto.Milestones, *NewMilestoneDTO(&order.Milestones[i]))
	}
	return dto
}

func NewItemDTO(item *models.OrderItem) *ItemDTO {
	dto := &ItemDTO{
		ID:                item.ID,
		ProductID:         item.ProductID,
		VariantID:         item.VariantID,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		TotalPrice:        item.TotalPrice,
		ReceivedQuantity:  item.ReceivedQuantity,
		DefectiveQuantity: item.DefectiveQuantity,
	}
	if item.QualityGrade != nil {
		grade := string(*item.QualityGrade)
		dto.QualityGrade = &grade
	}
	return dto
}

func NewMilestoneDTO(milestone *models.ProductionMilestone) *MilestoneDTO {
	return &MilestoneDTO{
		ID:           milestone.ID,
		Name:         milestone.Name,
		Description:  milestone.Description,
		ExpectedDate: milestone.ExpectedDate,
		ActualDate:   milestone.ActualDate,
		Status:       string(milestone.Status),
		Notes:        milestone.Notes,
	}
}

func NewReturnDTO(ret *models.Return) *ReturnDTO {
	return &ReturnDTO{
		ID:           ret.ID,
		OrderID:      ret.OrderID,
		OrderItemID:  ret.OrderItemID,
		Reason:       string(ret.Reason),
		Quantity:     ret.Quantity,
		ReturnDate:   ret.ReturnDate,
		Status:       string(ret.Status),
		RefundAmount: ret.RefundAmount,
		Notes:        ret.Notes,
	}
}
