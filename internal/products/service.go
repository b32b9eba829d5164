package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stefanobartoli/filiera-backend/internal/analytics"
	"github.com/stefanobartoli/filiera-backend/internal/pricing"
	"github.com/stefanobartoli/filiera-backend/pkg/db"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/outbox"
	"github.com/stefanobartoli/filiera-backend/pkg/pagination"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

// Service exposes catalog, variant and pricing operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*VariantDTO, error)
	UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, input UpdateVariantInput) (*VariantDTO, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error
	AddPriceList(ctx context.Context, productID uuid.UUID, input PriceListInput) (*PriceListDTO, error)
	UpdateDiscountTier(ctx context.Context, productID, priceListID, tierID uuid.UUID, input TierUpdateInput) (*TierDTO, error)
	PricingSummary(ctx context.Context, productID uuid.UUID) (*PricingSummaryDTO, error)
	VariantMargins(ctx context.Context, productID uuid.UUID) (*MarginReportDTO, error)
	Stats(ctx context.Context, productID uuid.UUID) (*StatsDTO, error)
}

// CreateProductInput holds the validated payload to register a product.
type CreateProductInput struct {
	Name             string
	Code             string
	Category         enums.ProductCategory
	Subcategory      string
	Description      string
	Season           enums.Season
	Collection       string
	CollectionYear   int
	Materials        types.MaterialList
	CareInstructions types.CareInstructionList
	TargetPrice      decimal.Decimal
	Sustainability   types.Sustainability
	Tags             []string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name             *string
	Category         *enums.ProductCategory
	Subcategory      *string
	Description      *string
	Season           *enums.Season
	Collection       *string
	CollectionYear   *int
	Materials        *types.MaterialList
	CareInstructions *types.CareInstructionList
	TargetPrice      *decimal.Decimal
	Sustainability   *types.Sustainability
	Tags             *[]string
	Status           *enums.ProductStatus
}

// VariantInput holds the payload to add a color/size combination.
type VariantInput struct {
	SKU                  string
	Color                string
	ColorHex             *string
	Size                 string
	Material             *string
	Fit                  enums.FitType
	Price                decimal.Decimal
	CostPrice            decimal.Decimal
	MinimumOrderQuantity int
	StockQuantity        *int
	WeightGrams          *float64
}

// UpdateVariantInput holds optional mutation values for a variant.
type UpdateVariantInput struct {
	Color                *string
	ColorHex             *string
	Size                 *string
	Material             *string
	Fit                  *enums.FitType
	Price                *decimal.Decimal
	CostPrice            *decimal.Decimal
	MinimumOrderQuantity *int
	StockQuantity        *int
	WeightGrams          *float64
}

// TierInput declares one quantity break by its discount percentage. The
// unit price is derived, never accepted from the client.
type TierInput struct {
	MinimumQuantity    int
	DiscountPercentage float64
}

// PriceListInput holds a supplier quotation to attach to a product.
type PriceListInput struct {
	SupplierID           uuid.UUID
	BasePrice            decimal.Decimal
	Currency             enums.Currency
	MinimumOrderQuantity int
	LeadTimeDays         int
	ValidFrom            time.Time
	ValidTo              *time.Time
	Tiers                []TierInput
}

// TierUpdateInput mutates one quantity break. Exactly one of the two
// fields must be set; the other side is recomputed from the base price.
type TierUpdateInput struct {
	DiscountPercentage *float64
	UnitPrice          *decimal.Decimal
}

// ListResult pages through products.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error)
	FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	CreatePriceList(ctx context.Context, list *models.PriceList) (*models.PriceList, error)
	ListPriceLists(ctx context.Context, productID uuid.UUID) ([]models.PriceList, error)
	FindPriceList(ctx context.Context, productID, priceListID uuid.UUID) (*models.PriceList, error)
	FindTier(ctx context.Context, priceListID, tierID uuid.UUID) (*models.DiscountTier, error)
	SaveTier(ctx context.Context, tx *gorm.DB, tier *models.DiscountTier) (*models.DiscountTier, error)
	ListOrdersForProduct(ctx context.Context, productID uuid.UUID) ([]models.Order, error)
	CountOrderItems(ctx context.Context, productID uuid.UUID) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo   repository
	tx     txRunner
	events eventEmitter
	logg   *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo repository, tx txRunner, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, tx: tx, events: events, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	if !input.Season.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown season")
	}
	if input.TargetPrice.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "target price cannot be negative")
	}

	row := &models.Product{
		Name:             input.Name,
		Code:             strings.ToUpper(strings.TrimSpace(input.Code)),
		Category:         input.Category,
		Subcategory:      input.Subcategory,
		Description:      input.Description,
		Season:           input.Season,
		Collection:       input.Collection,
		CollectionYear:   input.CollectionYear,
		Materials:        input.Materials,
		CareInstructions: input.CareInstructions,
		TargetPrice:      input.TargetPrice,
		Sustainability:   input.Sustainability,
		Tags:             input.Tags,
		Status:           enums.ProductStatusDraft,
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, cursor, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ListResult{}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Products = append(result.Products, *NewProductDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
		}
		product.Category = *input.Category
	}
	if input.Subcategory != nil {
		product.Subcategory = *input.Subcategory
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Season != nil {
		if !input.Season.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown season")
		}
		product.Season = *input.Season
	}
	if input.Collection != nil {
		product.Collection = *input.Collection
	}
	if input.CollectionYear != nil {
		product.CollectionYear = *input.CollectionYear
	}
	if input.Materials != nil {
		product.Materials = *input.Materials
	}
	if input.CareInstructions != nil {
		product.CareInstructions = *input.CareInstructions
	}
	if input.TargetPrice != nil {
		if input.TargetPrice.Sign() < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "target price cannot be negative")
		}
		product.TargetPrice = *input.TargetPrice
	}
	if input.Sustainability != nil {
		product.Sustainability = *input.Sustainability
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status")
		}
		product.Status = *input.Status
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.CountOrderItems(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count order references")
	}
	if referenced > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product is referenced by existing orders").
			WithDetails(map[string]any{"order_items": referenced})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*VariantDTO, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	if input.Price.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "variant price must be positive")
	}
	if input.CostPrice.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "variant cost price cannot be negative")
	}
	if input.MinimumOrderQuantity <= 0 {
		input.MinimumOrderQuantity = 1
	}

	variant := &models.ProductVariant{
		ProductID:            productID,
		SKU:                  strings.ToUpper(strings.TrimSpace(input.SKU)),
		Color:                input.Color,
		ColorHex:             input.ColorHex,
		Size:                 input.Size,
		Material:             input.Material,
		Fit:                  input.Fit,
		Price:                input.Price,
		CostPrice:            input.CostPrice,
		MinimumOrderQuantity: input.MinimumOrderQuantity,
		StockQuantity:        input.StockQuantity,
		WeightGrams:          input.WeightGrams,
	}
	created, err := s.repo.CreateVariant(ctx, variant)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_product_variants_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a variant with this SKU already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
	}
	return NewVariantDTO(created), nil
}

func (s *service) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, input UpdateVariantInput) (*VariantDTO, error) {
	variant, err := s.findVariant(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	if input.Color != nil {
		variant.Color = *input.Color
	}
	if input.ColorHex != nil {
		variant.ColorHex = input.ColorHex
	}
	if input.Size != nil {
		variant.Size = *input.Size
	}
	if input.Material != nil {
		variant.Material = input.Material
	}
	if input.Fit != nil {
		variant.Fit = *input.Fit
	}
	if input.Price != nil {
		if input.Price.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "variant price must be positive")
		}
		variant.Price = *input.Price
	}
	if input.CostPrice != nil {
		if input.CostPrice.Sign() < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "variant cost price cannot be negative")
		}
		variant.CostPrice = *input.CostPrice
	}
	if input.MinimumOrderQuantity != nil && *input.MinimumOrderQuantity > 0 {
		variant.MinimumOrderQuantity = *input.MinimumOrderQuantity
	}
	if input.StockQuantity != nil {
		variant.StockQuantity = input.StockQuantity
	}
	if input.WeightGrams != nil {
		variant.WeightGrams = input.WeightGrams
	}

	updated, err := s.repo.UpdateVariant(ctx, variant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update variant")
	}
	return NewVariantDTO(updated), nil
}

func (s *service) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	if _, err := s.findVariant(ctx, productID, variantID); err != nil {
		return err
	}
	if err := s.repo.DeleteVariant(ctx, productID, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variant")
	}
	return nil
}

func (s *service) AddPriceList(ctx context.Context, productID uuid.UUID, input PriceListInput) (*PriceListDTO, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	if input.BasePrice.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "base price must be positive")
	}
	if input.ValidTo != nil && input.ValidTo.Before(input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_to cannot precede valid_from")
	}

	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyEUR
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}
	moq := input.MinimumOrderQuantity
	if moq <= 0 {
		moq = 1
	}

	list := &models.PriceList{
		ProductID:            productID,
		SupplierID:           input.SupplierID,
		BasePrice:            input.BasePrice,
		Currency:             currency,
		MinimumOrderQuantity: moq,
		LeadTimeDays:         input.LeadTimeDays,
		ValidFrom:            input.ValidFrom,
		ValidTo:              input.ValidTo,
		IsActive:             true,
	}
	seen := map[int]bool{}
	for _, tierIn := range input.Tiers {
		if tierIn.MinimumQuantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier minimum quantity must be positive")
		}
		if seen[tierIn.MinimumQuantity] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier minimum quantity").
				WithDetails(map[string]any{"minimum_quantity": tierIn.MinimumQuantity})
		}
		seen[tierIn.MinimumQuantity] = true

		tier, err := pricing.UpdateTierByPercentage(
			models.DiscountTier{MinimumQuantity: tierIn.MinimumQuantity},
			input.BasePrice,
			tierIn.DiscountPercentage,
		)
		if err != nil {
			return nil, err
		}
		list.Tiers = append(list.Tiers, tier)
	}

	created, err := s.repo.CreatePriceList(ctx, list)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price list")
	}
	return NewPriceListDTO(created), nil
}

func (s *service) UpdateDiscountTier(ctx context.Context, productID, priceListID, tierID uuid.UUID, input TierUpdateInput) (*TierDTO, error) {
	if (input.DiscountPercentage == nil) == (input.UnitPrice == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provide exactly one of discount_percentage or unit_price")
	}

	list, err := s.repo.FindPriceList(ctx, productID, priceListID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price list")
	}

	tier, err := s.repo.FindTier(ctx, priceListID, tierID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount tier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount tier")
	}

	var updated models.DiscountTier
	if input.DiscountPercentage != nil {
		updated, err = pricing.UpdateTierByPercentage(*tier, list.BasePrice, *input.DiscountPercentage)
	} else {
		updated, err = pricing.UpdateTierByUnitPrice(*tier, list.BasePrice, *input.UnitPrice)
	}
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.SaveTier(ctx, tx, &updated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save discount tier")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDiscountTierUpdated,
			AggregateType: enums.AggregatePriceList,
			AggregateID:   priceListID,
			Data: map[string]any{
				"product_id":          productID,
				"tier_id":             tierID,
				"minimum_quantity":    updated.MinimumQuantity,
				"discount_percentage": updated.DiscountPercentage,
				"unit_price":          updated.UnitPrice.String(),
			},
			Version: 1,
		})
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount tier")
	}

	return &TierDTO{
		ID:                 updated.ID,
		MinimumQuantity:    updated.MinimumQuantity,
		DiscountPercentage: updated.DiscountPercentage,
		UnitPrice:          updated.UnitPrice,
	}, nil
}

func (s *service) PricingSummary(ctx context.Context, productID uuid.UUID) (*PricingSummaryDTO, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	lists, err := s.repo.ListPriceLists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list price lists")
	}
	return &PricingSummaryDTO{
		ProductID: productID,
		Summary:   pricing.SummarizePriceLists(lists),
	}, nil
}

func (s *service) VariantMargins(ctx context.Context, productID uuid.UUID) (*MarginReportDTO, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	variants, err := s.repo.ListVariants(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
	}

	report := &MarginReportDTO{ProductID: productID}
	for _, v := range variants {
		entry := VariantMarginDTO{VariantID: v.ID, SKU: v.SKU}
		if margin, ok := pricing.VariantMargin(v.Price, v.CostPrice); ok {
			entry.Margin = &margin
		}
		report.Variants = append(report.Variants, entry)
	}
	if avg, ok := pricing.AverageVariantMargin(variants); ok {
		report.AverageMargin = &avg
	}
	return report, nil
}

func (s *service) Stats(ctx context.Context, productID uuid.UUID) (*StatsDTO, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product orders")
	}
	variants, err := s.repo.ListVariants(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
	}
	return &StatsDTO{
		ProductID: productID,
		Stats:     analytics.ComputeProductStats(productID, orders, variants),
	}, nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) findVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, err := s.repo.FindVariant(ctx, productID, variantID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
	}
	return variant, nil
}

func isNotFound(err error) bool {
	return err != nil && (err == gorm.ErrRecordNotFound || strings.Contains(err.Error(), "record not found"))
}
