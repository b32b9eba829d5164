package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

// Return records merchandise sent back to a supplier.
type Return struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID          `gorm:"column:order_id;type:uuid;not null"`
	OrderItemID  uuid.UUID          `gorm:"column:order_item_id;type:uuid;not null"`
	Reason       enums.ReturnReason `gorm:"column:reason;type:text;not null"`
	Quantity     int                `gorm:"column:quantity;not null"`
	ReturnDate   time.Time          `gorm:"column:return_date;not null"`
	Status       enums.ReturnStatus `gorm:"column:status;type:text;not null;default:'richiesto'"`
	RefundAmount *decimal.Decimal   `gorm:"column:refund_amount;type:numeric(12,2)"`
	Notes        *string            `gorm:"column:notes"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
