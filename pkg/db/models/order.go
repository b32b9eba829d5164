package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

// Order represents a purchase order placed with a supplier.
type Order struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber          string                `gorm:"column:order_number;not null;uniqueIndex:idx_orders_number"`
	SupplierID           uuid.UUID             `gorm:"column:supplier_id;type:uuid;not null"`
	Status               enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'bozza'"`
	TotalAmount          decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	OrderDate            time.Time             `gorm:"column:order_date;not null"`
	ExpectedDeliveryDate time.Time             `gorm:"column:expected_delivery_date;not null"`
	ActualDeliveryDate   *time.Time            `gorm:"column:actual_delivery_date"`
	Notes                *string               `gorm:"column:notes"`
	QualityControlNotes  *string               `gorm:"column:quality_control_notes"`
	Items                []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Milestones           []ProductionMilestone `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures one ordered variant with its negotiated price.
type OrderItem struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	ProductID         uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	VariantID         uuid.UUID           `gorm:"column:variant_id;type:uuid;not null"`
	Quantity          int                 `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice        decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	ReceivedQuantity  *int                `gorm:"column:received_quantity"`
	DefectiveQuantity *int                `gorm:"column:defective_quantity"`
	QualityGrade      *enums.QualityGrade `gorm:"column:quality_grade;type:text"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductionMilestone tracks one step of an order's production plan.
type ProductionMilestone struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID             `gorm:"column:order_id;type:uuid;not null"`
	Name         string                `gorm:"column:name;not null"`
	Description  string                `gorm:"column:description;not null;default:''"`
	ExpectedDate time.Time             `gorm:"column:expected_date;not null"`
	ActualDate   *time.Time            `gorm:"column:actual_date"`
	Status       enums.MilestoneStatus `gorm:"column:status;type:text;not null;default:'programmato'"`
	Notes        *string               `gorm:"column:notes"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
