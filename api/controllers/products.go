package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/api/responses"
	"github.com/stefanobartoli/filiera-backend/api/validators"
	product "github.com/stefanobartoli/filiera-backend/internal/products"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
	pkgerrors "github.com/stefanobartoli/filiera-backend/pkg/errors"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/types"
)

type productCreateRequest struct {
	Name             string                    `json:"name" validate:"required,min=1"`
	Code             string                    `json:"code" validate:"required,min=1"`
	Category         string                    `json:"category" validate:"required"`
	Subcategory      string                    `json:"subcategory"`
	Description      string                    `json:"description"`
	Season           string                    `json:"season" validate:"required"`
	Collection       string                    `json:"collection"`
	CollectionYear   int                       `json:"collection_year" validate:"omitempty,gte=2000"`
	Materials        types.MaterialList        `json:"materials,omitempty"`
	CareInstructions types.CareInstructionList `json:"care_instructions,omitempty"`
	TargetPrice      decimal.Decimal           `json:"target_price"`
	Sustainability   types.Sustainability      `json:"sustainability,omitempty"`
	Tags             []string                  `json:"tags,omitempty"`
}

type productUpdateRequest struct {
	Name             *string                    `json:"name,omitempty" validate:"omitempty,min=1"`
	Category         *string                    `json:"category,omitempty"`
	Subcategory      *string                    `json:"subcategory,omitempty"`
	Description      *string                    `json:"description,omitempty"`
	Season           *string                    `json:"season,omitempty"`
	Collection       *string                    `json:"collection,omitempty"`
	CollectionYear   *int                       `json:"collection_year,omitempty"`
	Materials        *types.MaterialList        `json:"materials,omitempty"`
	CareInstructions *types.CareInstructionList `json:"care_instructions,omitempty"`
	TargetPrice      *decimal.Decimal           `json:"target_price,omitempty"`
	Sustainability   *types.Sustainability      `json:"sustainability,omitempty"`
	Tags             *[]string                  `json:"tags,omitempty"`
	Status           *string                    `json:"status,omitempty"`
}

type variantCreateRequest struct {
	SKU                  string          `json:"sku" validate:"required,min=1"`
	Color                string          `json:"color"`
	ColorHex             *string         `json:"color_hex,omitempty"`
	Size                 string          `json:"size"`
	Material             *string         `json:"material,omitempty"`
	Fit                  string          `json:"fit"`
	Price                decimal.Decimal `json:"price"`
	CostPrice            decimal.Decimal `json:"cost_price"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity" validate:"omitempty,gte=0"`
	StockQuantity        *int            `json:"stock_quantity,omitempty"`
	WeightGrams          *float64        `json:"weight_grams,omitempty"`
}

type variantUpdateRequest struct {
	Color                *string          `json:"color,omitempty"`
	ColorHex             *string          `json:"color_hex,omitempty"`
	Size                 *string          `json:"size,omitempty"`
	Material             *string          `json:"material,omitempty"`
	Fit                  *string          `json:"fit,omitempty"`
	Price                *decimal.Decimal `json:"price,omitempty"`
	CostPrice            *decimal.Decimal `json:"cost_price,omitempty"`
	MinimumOrderQuantity *int             `json:"minimum_order_quantity,omitempty"`
	StockQuantity        *int             `json:"stock_quantity,omitempty"`
	WeightGrams          *float64         `json:"weight_grams,omitempty"`
}

type tierRequest struct {
	MinimumQuantity    int     `json:"minimum_quantity" validate:"gt=0"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
}

type priceListRequest struct {
	SupplierID           string          `json:"supplier_id" validate:"required,uuid4"`
	BasePrice            decimal.Decimal `json:"base_price"`
	Currency             string          `json:"currency"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity" validate:"omitempty,gte=0"`
	LeadTimeDays         int             `json:"lead_time_days" validate:"omitempty,gte=0"`
	ValidFrom            time.Time       `json:"valid_from" validate:"required"`
	ValidTo              *time.Time      `json:"valid_to,omitempty"`
	Tiers                []tierRequest   `json:"tiers,omitempty" validate:"dive"`
}

type tierUpdateRequest struct {
	DiscountPercentage *float64         `json:"discount_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
}

// ProductCreate registers a new product in draft status.
func ProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body productCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}
		season, err := enums.ParseSeason(body.Season)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid season"))
			return
		}

		dto, err := svc.CreateProduct(r.Context(), product.CreateProductInput{
			Name:             body.Name,
			Code:             body.Code,
			Category:         category,
			Subcategory:      body.Subcategory,
			Description:      body.Description,
			Season:           season,
			Collection:       body.Collection,
			CollectionYear:   body.CollectionYear,
			Materials:        body.Materials,
			CareInstructions: body.CareInstructions,
			TargetPrice:      body.TargetPrice,
			Sustainability:   body.Sustainability,
			Tags:             body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ProductGet returns one product with variants and price lists.
func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ProductList pages through the catalog with optional filters.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := product.ListFilter{Search: validators.ParseQueryString(r, "search")}
		if raw := validators.ParseQueryString(r, "category"); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}
		if raw := validators.ParseQueryString(r, "season"); raw != "" {
			season, err := enums.ParseSeason(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid season"))
				return
			}
			filter.Season = &season
		}
		if raw := validators.ParseQueryString(r, "status"); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}

		result, err := svc.ListProducts(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductUpdate mutates product fields and lifecycle status.
func ProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateProductInput{
			Name:             body.Name,
			Subcategory:      body.Subcategory,
			Description:      body.Description,
			Collection:       body.Collection,
			CollectionYear:   body.CollectionYear,
			Materials:        body.Materials,
			CareInstructions: body.CareInstructions,
			TargetPrice:      body.TargetPrice,
			Sustainability:   body.Sustainability,
			Tags:             body.Tags,
		}
		if body.Category != nil {
			category, err := enums.ParseProductCategory(*body.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}
		if body.Season != nil {
			season, err := enums.ParseSeason(*body.Season)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid season"))
				return
			}
			input.Season = &season
		}
		if body.Status != nil {
			status, err := enums.ParseProductStatus(*body.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		dto, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ProductDelete removes a product that was never ordered.
func ProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ProductAddVariant attaches a size/color variant to the product.
func ProductAddVariant(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body variantCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fit := enums.FitTypeRegular
		if body.Fit != "" {
			fit, err = enums.ParseFitType(body.Fit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fit"))
				return
			}
		}

		dto, err := svc.AddVariant(r.Context(), id, product.VariantInput{
			SKU:                  body.SKU,
			Color:                body.Color,
			ColorHex:             body.ColorHex,
			Size:                 body.Size,
			Material:             body.Material,
			Fit:                  fit,
			Price:                body.Price,
			CostPrice:            body.CostPrice,
			MinimumOrderQuantity: body.MinimumOrderQuantity,
			StockQuantity:        body.StockQuantity,
			WeightGrams:          body.WeightGrams,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ProductUpdateVariant mutates variant fields.
func ProductUpdateVariant(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.ParsePathUUID(chi.URLParam(r, "variantID"), "variantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body variantUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateVariantInput{
			Color:                body.Color,
			ColorHex:             body.ColorHex,
			Size:                 body.Size,
			Material:             body.Material,
			Price:                body.Price,
			CostPrice:            body.CostPrice,
			MinimumOrderQuantity: body.MinimumOrderQuantity,
			StockQuantity:        body.StockQuantity,
			WeightGrams:          body.WeightGrams,
		}
		if body.Fit != nil {
			fit, err := enums.ParseFitType(*body.Fit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fit"))
				return
			}
			input.Fit = &fit
		}

		dto, err := svc.UpdateVariant(r.Context(), productID, variantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ProductDeleteVariant removes a variant.
func ProductDeleteVariant(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.ParsePathUUID(chi.URLParam(r, "variantID"), "variantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVariant(r.Context(), productID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ProductAddPriceList attaches a supplier quotation with derived discount tiers.
func ProductAddPriceList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body priceListRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierID, err := validators.ParsePathUUID(body.SupplierID, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency := enums.CurrencyEUR
		if body.Currency != "" {
			currency, err = enums.ParseCurrency(body.Currency)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency"))
				return
			}
		}

		tiers := make([]product.TierInput, 0, len(body.Tiers))
		for _, tier := range body.Tiers {
			tiers = append(tiers, product.TierInput{
				MinimumQuantity:    tier.MinimumQuantity,
				DiscountPercentage: tier.DiscountPercentage,
			})
		}

		dto, err := svc.AddPriceList(r.Context(), id, product.PriceListInput{
			SupplierID:           supplierID,
			BasePrice:            body.BasePrice,
			Currency:             currency,
			MinimumOrderQuantity: body.MinimumOrderQuantity,
			LeadTimeDays:         body.LeadTimeDays,
			ValidFrom:            body.ValidFrom,
			ValidTo:              body.ValidTo,
			Tiers:                tiers,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ProductUpdateTier reconciles one discount tier by percentage or unit price.
func ProductUpdateTier(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceListID, err := validators.ParsePathUUID(chi.URLParam(r, "priceListID"), "priceListID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tierID, err := validators.ParsePathUUID(chi.URLParam(r, "tierID"), "tierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tierUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateDiscountTier(r.Context(), productID, priceListID, tierID, product.TierUpdateInput{
			DiscountPercentage: body.DiscountPercentage,
			UnitPrice:          body.UnitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ProductPricingSummary rolls up active price lists into best/worst/average pricing.
func ProductPricingSummary(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.PricingSummary(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ProductVariantMargins reports the percentage margin per variant.
func ProductVariantMargins(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.VariantMargins(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ProductStats aggregates ordering activity for one product.
func ProductStats(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Stats(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
