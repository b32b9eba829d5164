package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

// PriceList is one supplier's quotation for a product.
type PriceList struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID            uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	SupplierID           uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	BasePrice            decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	Currency             enums.Currency  `gorm:"column:currency;type:text;not null;default:'EUR'"`
	MinimumOrderQuantity int             `gorm:"column:minimum_order_quantity;not null;default:1"`
	LeadTimeDays         int             `gorm:"column:lead_time_days;not null"`
	ValidFrom            time.Time       `gorm:"column:valid_from;not null"`
	ValidTo              *time.Time      `gorm:"column:valid_to"`
	IsActive             bool            `gorm:"column:is_active;not null;default:true"`
	Tiers                []DiscountTier  `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// DiscountTier is a quantity break on a price list. The unit price and
// discount percentage are kept mutually consistent with the list's base
// price by the pricing service.
type DiscountTier struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PriceListID        uuid.UUID       `gorm:"column:price_list_id;type:uuid;not null"`
	MinimumQuantity    int             `gorm:"column:minimum_quantity;not null"`
	DiscountPercentage float64         `gorm:"column:discount_percentage;type:numeric(6,3);not null"`
	UnitPrice          decimal.Decimal `gorm:"column:unit_price;type:numeric(12,4);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
