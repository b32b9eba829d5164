package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/internal/analytics"
	"github.com/stefanobartoli/filiera-backend/internal/pricing"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

// ProductDTO is the client payload for a catalog entry.
type ProductDTO struct {
	ID               uuid.UUID                 `json:"id"`
	Name             string                    `json:"name"`
	Code             string                    `json:"code"`
	Category         string                    `json:"category"`
	Subcategory      string                    `json:"subcategory,omitempty"`
	Description      string                    `json:"description,omitempty"`
	Season           string                    `json:"season"`
	Collection       string                    `json:"collection,omitempty"`
	CollectionYear   int                       `json:"collection_year"`
	Materials        types.MaterialList        `json:"materials"`
	CareInstructions types.CareInstructionList `json:"care_instructions"`
	TargetPrice      decimal.Decimal           `json:"target_price"`
	Sustainability   types.Sustainability      `json:"sustainability"`
	Tags             []string                  `json:"tags"`
	Status           string                    `json:"status"`
	Variants         []VariantDTO              `json:"variants,omitempty"`
	PriceLists       []PriceListDTO            `json:"price_lists,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// VariantDTO is the client payload for a color/size combination.
type VariantDTO struct {
	ID                   uuid.UUID       `json:"id"`
	SKU                  string          `json:"sku"`
	Color                string          `json:"color"`
	ColorHex             *string         `json:"color_hex,omitempty"`
	Size                 string          `json:"size"`
	Material             *string         `json:"material,omitempty"`
	Fit                  string          `json:"fit"`
	Price                decimal.Decimal `json:"price"`
	CostPrice            decimal.Decimal `json:"cost_price"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	StockQuantity        *int            `json:"stock_quantity,omitempty"`
	WeightGrams          *float64        `json:"weight_grams,omitempty"`
}

// PriceListDTO is one supplier quotation with its quantity breaks.
type PriceListDTO struct {
	ID                   uuid.UUID       `json:"id"`
	SupplierID           uuid.UUID       `json:"supplier_id"`
	BasePrice            decimal.Decimal `json:"base_price"`
	Currency             string          `json:"currency"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	LeadTimeDays         int             `json:"lead_time_days"`
	ValidFrom            time.Time       `json:"valid_from"`
	ValidTo              *time.Time      `json:"valid_to,omitempty"`
	IsActive             bool            `json:"is_active"`
	Tiers                []TierDTO       `json:"discount_tiers"`
}

// TierDTO is one quantity break.
type TierDTO struct {
	ID                 uuid.UUID       `json:"id"`
	MinimumQuantity    int             `json:"minimum_quantity"`
	DiscountPercentage float64         `json:"discount_percentage"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
}

// PricingSummaryDTO is the rollup of a product's active quotations.
type PricingSummaryDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Summary   pricing.Summary `json:"summary"`
}

// VariantMarginDTO reports the margin of a single variant. Margin is nil
// when the variant's price makes it non-computable.
type VariantMarginDTO struct {
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
	Margin    *float64  `json:"margin_percentage"`
}

// MarginReportDTO aggregates margins across a product's variants.
type MarginReportDTO struct {
	ProductID     uuid.UUID          `json:"product_id"`
	Variants      []VariantMarginDTO `json:"variants"`
	AverageMargin *float64           `json:"average_margin_percentage"`
}

// StatsDTO wraps the ordering history rollup for a product.
type StatsDTO struct {
	ProductID uuid.UUID              `json:"product_id"`
	Stats     analytics.ProductStats `json:"stats"`
}

// NewProductDTO maps the model into the client payload.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:               product.ID,
		Name:             product.Name,
		Code:             product.Code,
		Category:         string(product.Category),
		Subcategory:      product.Subcategory,
		Description:      product.Description,
		Season:           string(product.Season),
		Collection:       product.Collection,
		CollectionYear:   product.CollectionYear,
		Materials:        product.Materials,
		CareInstructions: product.CareInstructions,
		TargetPrice:      product.TargetPrice,
		Sustainability:   product.Sustainability,
		Tags:             product.Tags,
		Status:           string(product.Status),
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
	for i := range product.Variants {
		dto.Variants = append(dto.Variants, *NewVariantDTO(&product.Variants[i]))
	}
	for i := range product.PriceLists {
		dto.PriceLists = append(dto.PriceLists, *NewPriceListDTO(&product.PriceLists[i]))
	}
	return dto
}

func NewVariantDTO(variant *models.ProductVariant) *VariantDTO {
	return &VariantDTO{
		ID:                   variant.ID,
		SKU:                  variant.SKU,
		Color:                variant.Color,
		ColorHex:             variant.ColorHex,
		Size:                 variant.Size,
		Material:             variant.Material,
		Fit:                  string(variant.Fit),
		Price:                variant.Price,
		CostPrice:            variant.CostPrice,
		MinimumOrderQuantity: variant.MinimumOrderQuantity,
		StockQuantity:        variant.StockQuantity,
		WeightGrams:          variant.WeightGrams,
	}
}

func NewPriceListDTO(list *models.PriceList) *PriceListDTO {
	dto := &PriceListDTO{
		ID:                   list.ID,
		SupplierID:           list.SupplierID,
		BasePrice:            list.BasePrice,
		Currency:             string(list.Currency),
		MinimumOrderQuantity: list.MinimumOrderQuantity,
		LeadTimeDays:         list.LeadTimeDays,
		ValidFrom:            list.ValidFrom,
		ValidTo:              list.ValidTo,
		IsActive:             list.IsActive,
		Tiers:                []TierDTO{},
	}
	for _, tier := range list.Tiers {
		dto.Tiers = append(dto.Tiers, TierDTO{
			ID:                 tier.ID,
			MinimumQuantity:    tier.MinimumQuantity,
			DiscountPercentage: tier.DiscountPercentage,
			UnitPrice:          tier.UnitPrice,
		})
	}
	return dto
}
