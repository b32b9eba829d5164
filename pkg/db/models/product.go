package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

// Product represents a catalog entry under development or in production.
type Product struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string                    `gorm:"column:name;not null"`
	Code             string                    `gorm:"column:code;not null;uniqueIndex:idx_products_code"`
	Category         enums.ProductCategory     `gorm:"column:category;type:text;not null"`
	Subcategory      string                    `gorm:"column:subcategory;not null;default:''"`
	Description      string                    `gorm:"column:description;not null;default:''"`
	Season           enums.Season              `gorm:"column:season;type:text;not null"`
	Collection       string                    `gorm:"column:collection;not null;default:''"`
	CollectionYear   int                       `gorm:"column:collection_year;not null"`
	Materials        types.MaterialList        `gorm:"column:materials;type:jsonb"`
	CareInstructions types.CareInstructionList `gorm:"column:care_instructions;type:jsonb"`
	TargetPrice      decimal.Decimal           `gorm:"column:target_price;type:numeric(12,2);not null;default:0"`
	Sustainability   types.Sustainability      `gorm:"column:sustainability;type:jsonb"`
	Tags             pq.StringArray            `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Status           enums.ProductStatus       `gorm:"column:status;type:text;not null;default:'bozza'"`
	Variants         []ProductVariant          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PriceLists       []PriceList               `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant is a sellable color/size combination of a product.
type ProductVariant struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID            uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	SKU                  string          `gorm:"column:sku;not null;uniqueIndex:idx_product_variants_sku"`
	Color                string          `gorm:"column:color;not null"`
	ColorHex             *string         `gorm:"column:color_hex"`
	Size                 string          `gorm:"column:size;not null"`
	Material             *string         `gorm:"column:material"`
	Fit                  enums.FitType   `gorm:"column:fit;type:text;not null;default:'regular'"`
	Price                decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CostPrice            decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	MinimumOrderQuantity int             `gorm:"column:minimum_order_quantity;not null;default:1"`
	StockQuantity        *int            `gorm:"column:stock_quantity"`
	WeightGrams          *float64        `gorm:"column:weight_grams;type:numeric(8,2)"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
