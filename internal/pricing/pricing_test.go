package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/errors"
)

const tolerance = 1e-9

func TestUpdateTierByPercentage(t *testing.T) {
	base := decimal.NewFromInt(120)

	tier, err := UpdateTierByPercentage(models.DiscountTier{MinimumQuantity: 50}, base, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, tier.DiscountPercentage)
	assert.True(t, tier.UnitPrice.Equal(decimal.NewFromInt(108)), "unit price %s", tier.UnitPrice)
	assert.Equal(t, 50, tier.MinimumQuantity)
}

func TestUpdateTierByPercentageRejectsOutOfRange(t *testing.T) {
	base := decimal.NewFromInt(100)

	for _, pct := range []float64{-0.1, 100.5, 200} {
		_, err := UpdateTierByPercentage(models.DiscountTier{}, base, pct)
		require.Error(t, err)
		typed := errors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, errors.CodeValidation, typed.Code())
	}
}

func TestUpdateTierByPercentageRejectsZeroBasePrice(t *testing.T) {
	_, err := UpdateTierByPercentage(models.DiscountTier{}, decimal.Zero, 10)
	require.Error(t, err)
	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeInvalidPrice, typed.Code())

	_, err = UpdateTierByPercentage(models.DiscountTier{}, decimal.NewFromInt(-5), 10)
	require.Error(t, err)
}

func TestUpdateTierByUnitPrice(t *testing.T) {
	base := decimal.NewFromInt(200)

	tier, err := UpdateTierByUnitPrice(models.DiscountTier{}, base, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.True(t, tier.UnitPrice.Equal(decimal.NewFromInt(150)))
	assert.InDelta(t, 25.0, tier.DiscountPercentage, tolerance)
}

func TestUpdateTierByUnitPriceRejectsInvalidInput(t *testing.T) {
	base := decimal.NewFromInt(100)

	_, err := UpdateTierByUnitPrice(models.DiscountTier{}, base, decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.As(err).Code())

	_, err = UpdateTierByUnitPrice(models.DiscountTier{}, base, decimal.NewFromInt(101))
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.As(err).Code())

	_, err = UpdateTierByUnitPrice(models.DiscountTier{}, decimal.Zero, decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidPrice, errors.As(err).Code())
}

func TestTierRoundTripPercentageToPrice(t *testing.T) {
	base := decimal.NewFromFloat(149.90)

	for _, pct := range []float64{0, 2.5, 10, 33.5, 50, 99, 100} {
		tier, err := UpdateTierByPercentage(models.DiscountTier{}, base, pct)
		require.NoError(t, err)

		back, err := UpdateTierByUnitPrice(models.DiscountTier{}, base, tier.UnitPrice)
		require.NoError(t, err)
		assert.InDelta(t, pct, back.DiscountPercentage, tolerance, "pct %v", pct)
	}
}

func TestTierRoundTripPriceToPercentage(t *testing.T) {
	base := decimal.NewFromInt(80)

	for _, unit := range []float64{0, 12.5, 40, 79.99, 80} {
		unitPrice := decimal.NewFromFloat(unit)
		tier, err := UpdateTierByUnitPrice(models.DiscountTier{}, base, unitPrice)
		require.NoError(t, err)

		back, err := UpdateTierByPercentage(models.DiscountTier{}, base, tier.DiscountPercentage)
		require.NoError(t, err)
		assert.InDelta(t, unit, back.UnitPrice.InexactFloat64(), tolerance, "unit %v", unit)
	}
}

func TestSummarizePriceLists(t *testing.T) {
	lists := []models.PriceList{
		{BasePrice: decimal.NewFromInt(120), IsActive: true, LeadTimeDays: 30},
		{BasePrice: decimal.NewFromInt(135), IsActive: true, LeadTimeDays: 25},
		{BasePrice: decimal.NewFromInt(90), IsActive: false, LeadTimeDays: 10},
	}

	summary := SummarizePriceLists(lists)
	assert.True(t, summary.BestPrice.Equal(decimal.NewFromInt(120)), "best %s", summary.BestPrice)
	assert.True(t, summary.WorstPrice.Equal(decimal.NewFromInt(135)), "worst %s", summary.WorstPrice)
	assert.Equal(t, 28, summary.AverageLeadTimeDays)
	assert.Equal(t, 2, summary.ActiveCount)
}

func TestSummarizePriceListsEmpty(t *testing.T) {
	for _, lists := range [][]models.PriceList{
		nil,
		{},
		{{BasePrice: decimal.NewFromInt(90), IsActive: false, LeadTimeDays: 10}},
	} {
		summary := SummarizePriceLists(lists)
		assert.True(t, summary.BestPrice.IsZero())
		assert.True(t, summary.WorstPrice.IsZero())
		assert.Equal(t, 0, summary.AverageLeadTimeDays)
		assert.Equal(t, 0, summary.ActiveCount)
	}
}

func TestVariantMargin(t *testing.T) {
	margin, ok := VariantMargin(decimal.NewFromFloat(299.99), decimal.NewFromFloat(120.00))
	require.True(t, ok)
	assert.InDelta(t, 59.998666622, margin, 1e-6)

	// break-even is a real 0%, not "undefined"
	margin, ok = VariantMargin(decimal.NewFromInt(50), decimal.NewFromInt(50))
	require.True(t, ok)
	assert.Equal(t, 0.0, margin)

	_, ok = VariantMargin(decimal.Zero, decimal.NewFromInt(10))
	assert.False(t, ok)

	_, ok = VariantMargin(decimal.NewFromInt(-5), decimal.NewFromInt(10))
	assert.False(t, ok)
}

func TestAverageVariantMargin(t *testing.T) {
	variants := []models.ProductVariant{
		{Price: decimal.NewFromInt(100), CostPrice: decimal.NewFromInt(50)},  // 50%
		{Price: decimal.NewFromInt(200), CostPrice: decimal.NewFromInt(150)}, // 25%
		{Price: decimal.Zero, CostPrice: decimal.NewFromInt(10)},             // skipped
	}

	avg, ok := AverageVariantMargin(variants)
	require.True(t, ok)
	assert.InDelta(t, 37.5, avg, tolerance)

	_, ok = AverageVariantMargin(nil)
	assert.False(t, ok)

	_, ok = AverageVariantMargin([]models.ProductVariant{{Price: decimal.Zero}})
	assert.False(t, ok)
}

func TestVariantMarginNaNSafety(t *testing.T) {
	margin, ok := VariantMargin(decimal.NewFromFloat(0.01), decimal.NewFromFloat(0.02))
	require.True(t, ok)
	assert.False(t, math.IsNaN(margin))
	assert.InDelta(t, -100.0, margin, tolerance)
}
