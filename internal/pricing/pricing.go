// Package pricing holds the discount-tier reconciliation and price-list
// rollup math. Everything here is a pure function over already-loaded
// rows; callers own persistence.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// UpdateTierByPercentage sets the tier's discount percentage and derives
// the unit price from the parent list's base price. The percentage is the
// canonical field; the unit price is always recomputed, never trusted.
func UpdateTierByPercentage(tier models.DiscountTier, basePrice decimal.Decimal, pct float64) (models.DiscountTier, error) {
	if pct < 0 || pct > 100 {
		return tier, errors.New(errors.CodeValidation, "discount percentage must be between 0 and 100").
			WithDetails(map[string]any{"discount_percentage": pct})
	}
	if basePrice.Sign() <= 0 {
		return tier, errors.New(errors.CodeInvalidPrice, "base price must be positive")
	}

	factor := oneHundred.Sub(decimal.NewFromFloat(pct)).Div(oneHundred)
	tier.DiscountPercentage = pct
	tier.UnitPrice = basePrice.Mul(factor)
	return tier, nil
}

// UpdateTierByUnitPrice sets the tier's unit price and derives the discount
// percentage relative to the parent list's base price.
func UpdateTierByUnitPrice(tier models.DiscountTier, basePrice, unitPrice decimal.Decimal) (models.DiscountTier, error) {
	if basePrice.Sign() <= 0 {
		return tier, errors.New(errors.CodeInvalidPrice, "base price must be positive")
	}
	if unitPrice.Sign() < 0 {
		return tier, errors.New(errors.CodeValidation, "unit price cannot be negative").
			WithDetails(map[string]any{"unit_price": unitPrice.String()})
	}
	if unitPrice.GreaterThan(basePrice) {
		return tier, errors.New(errors.CodeValidation, "unit price cannot exceed the base price").
			WithDetails(map[string]any{"unit_price": unitPrice.String(), "base_price": basePrice.String()})
	}

	pct := basePrice.Sub(unitPrice).Div(basePrice).Mul(oneHundred)
	tier.UnitPrice = unitPrice
	tier.DiscountPercentage = pct.InexactFloat64()
	return tier, nil
}

// Summary is the rollup of a product's active supplier price lists.
type Summary struct {
	BestPrice           decimal.Decimal `json:"best_price"`
	WorstPrice          decimal.Decimal `json:"worst_price"`
	AverageLeadTimeDays int             `json:"average_lead_time_days"`
	ActiveCount         int             `json:"active_count"`
}

// SummarizePriceLists reduces the active price lists to best/worst base
// price and the rounded mean lead time. An empty or fully inactive input
// yields the zero summary, never an error.
func SummarizePriceLists(lists []models.PriceList) Summary {
	var summary Summary
	leadTimeTotal := 0

	for _, list := range lists {
		if !list.IsActive {
			continue
		}
		if summary.ActiveCount == 0 {
			summary.BestPrice = list.BasePrice
			summary.WorstPrice = list.BasePrice
		} else {
			if list.BasePrice.LessThan(summary.BestPrice) {
				summary.BestPrice = list.BasePrice
			}
			if list.BasePrice.GreaterThan(summary.WorstPrice) {
				summary.WorstPrice = list.BasePrice
			}
		}
		leadTimeTotal += list.LeadTimeDays
		summary.ActiveCount++
	}

	if summary.ActiveCount > 0 {
		summary.AverageLeadTimeDays = int(math.Round(float64(leadTimeTotal) / float64(summary.ActiveCount)))
	}
	return summary
}

// VariantMargin returns the margin percentage for a sale/cost price pair.
// The boolean distinguishes a break-even 0% margin from "not computable"
// (price <= 0).
func VariantMargin(price, costPrice decimal.Decimal) (float64, bool) {
	if price.Sign() <= 0 {
		return 0, false
	}
	margin := price.Sub(costPrice).Div(price).Mul(oneHundred)
	return margin.InexactFloat64(), true
}

// AverageVariantMargin averages the computable margins across a product's
// variants. Variants without a positive price are skipped rather than
// counted as zero; ok is false when no variant is computable.
func AverageVariantMargin(variants []models.ProductVariant) (float64, bool) {
	total := 0.0
	count := 0
	for _, v := range variants {
		margin, ok := VariantMargin(v.Price, v.CostPrice)
		if !ok {
			continue
		}
		total += margin
		count++
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}
