package analytics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

func TestComputeProductStats(t *testing.T) {
	productID := uuid.New()
	other := uuid.New()

	orders := []models.Order{
		{Items: []models.OrderItem{
			{ProductID: productID, Quantity: 50, TotalPrice: decimal.NewFromInt(6000)},
			{ProductID: other, Quantity: 10, TotalPrice: decimal.NewFromInt(900)},
		}},
		{Items: []models.OrderItem{
			{ProductID: productID, Quantity: 30, TotalPrice: decimal.NewFromInt(3600)},
		}},
		{Items: []models.OrderItem{
			{ProductID: productID, Quantity: 25, TotalPrice: decimal.NewFromInt(3000)},
		}},
		{Items: []models.OrderItem{
			{ProductID: other, Quantity: 5, TotalPrice: decimal.NewFromInt(500)},
		}},
	}

	variants := []models.ProductVariant{
		{Price: decimal.NewFromFloat(79.90)},
		{Price: decimal.NewFromFloat(89.90)},
		{Price: decimal.NewFromFloat(84.50)},
	}

	stats := ComputeProductStats(productID, orders, variants)
	assert.Equal(t, 105, stats.TotalQuantityOrdered)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(12600)), "revenue %s", stats.TotalRevenue)
	assert.Equal(t, 3, stats.OrderCount)
	assert.True(t, stats.PriceRange.Min.Equal(decimal.NewFromFloat(79.90)))
	assert.True(t, stats.PriceRange.Max.Equal(decimal.NewFromFloat(89.90)))
	assert.False(t, stats.PriceRange.Single())
}

func TestComputeProductStatsEmpty(t *testing.T) {
	stats := ComputeProductStats(uuid.New(), nil, nil)
	assert.Equal(t, 0, stats.TotalQuantityOrdered)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Equal(t, 0, stats.OrderCount)
	assert.True(t, stats.PriceRange.Min.IsZero())
	assert.True(t, stats.PriceRange.Max.IsZero())
	assert.True(t, stats.PriceRange.Single())
}

func TestVariantPriceRangeSinglePoint(t *testing.T) {
	variants := []models.ProductVariant{
		{Price: decimal.NewFromInt(45)},
		{Price: decimal.NewFromInt(45)},
	}
	r := VariantPriceRange(variants)
	assert.True(t, r.Single())
	assert.True(t, r.Min.Equal(decimal.NewFromInt(45)))
}

func TestComputeDashboardKPI(t *testing.T) {
	supplierA := uuid.New()
	supplierB := uuid.New()

	orders := []models.Order{
		{SupplierID: supplierA, Status: enums.OrderStatusProduction, TotalAmount: decimal.NewFromInt(5000)},
		{SupplierID: supplierA, Status: enums.OrderStatusCompleted, TotalAmount: decimal.NewFromInt(8000)},
		{SupplierID: supplierB, Status: enums.OrderStatusShipped, TotalAmount: decimal.NewFromInt(3000)},
		{SupplierID: supplierB, Status: enums.OrderStatusCancelled, TotalAmount: decimal.NewFromInt(9999)},
	}
	suppliers := []models.Supplier{
		{ID: supplierA, Name: "Maglificio Veneto"},
		{ID: supplierB, Name: "Tessitura Como"},
	}
	returns := []models.Return{{}}

	kpi := ComputeDashboardKPI(orders, suppliers, returns)

	assert.Equal(t, 2, kpi.OrdersInProgress)
	assert.True(t, kpi.TotalOrderValue.Equal(decimal.NewFromInt(16000)), "total %s", kpi.TotalOrderValue)
	assert.InDelta(t, 25.0, kpi.ReturnRate, 1e-9)

	require.Len(t, kpi.TopSuppliers, 2)
	assert.Equal(t, "Maglificio Veneto", kpi.TopSuppliers[0].Name)
	assert.Equal(t, 2, kpi.TopSuppliers[0].OrdersCount)
	assert.True(t, kpi.TopSuppliers[0].TotalValue.Equal(decimal.NewFromInt(13000)))

	statuses := map[enums.OrderStatus]int{}
	for _, sc := range kpi.ProductionStatus {
		statuses[sc.Status] = sc.Count
	}
	assert.Equal(t, 1, statuses[enums.OrderStatusProduction])
	assert.Equal(t, 1, statuses[enums.OrderStatusShipped])
	assert.Equal(t, 1, statuses[enums.OrderStatusCompleted])
	assert.NotContains(t, statuses, enums.OrderStatusCancelled)
}

func TestComputeDashboardKPIEmpty(t *testing.T) {
	kpi := ComputeDashboardKPI(nil, nil, nil)
	assert.Equal(t, 0, kpi.OrdersInProgress)
	assert.True(t, kpi.TotalOrderValue.IsZero())
	assert.Equal(t, 0.0, kpi.ReturnRate)
	assert.Empty(t, kpi.TopSuppliers)
	assert.Empty(t, kpi.ProductionStatus)
}
