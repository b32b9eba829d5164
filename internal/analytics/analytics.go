// Package analytics computes product and dashboard rollups from order
// history. Like the pricing core, everything is a pure reduction over
// loaded rows.
package analytics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stefanobartoli/filiera-backend/internal/performance"
	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

// PriceRange carries both bounds of a product's variant prices. Both are
// always populated; Single reports when they collapse to one value.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Single reports whether the range is a single price point.
func (r PriceRange) Single() bool {
	return r.Min.Equal(r.Max)
}

// ProductStats is the order/revenue rollup for one product.
type ProductStats struct {
	TotalQuantityOrdered int             `json:"total_quantity_ordered"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	OrderCount           int             `json:"order_count"`
	PriceRange           PriceRange      `json:"price_range"`
}

// ComputeProductStats sums quantities and revenue for items matching the
// product, and derives the variant price range. Empty inputs produce the
// zero stats.
func ComputeProductStats(productID uuid.UUID, orders []models.Order, variants []models.ProductVariant) ProductStats {
	stats := ProductStats{TotalRevenue: decimal.Zero}

	for _, order := range orders {
		matched := false
		for _, item := range order.Items {
			if item.ProductID != productID {
				continue
			}
			stats.TotalQuantityOrdered += item.Quantity
			stats.TotalRevenue = stats.TotalRevenue.Add(item.TotalPrice)
			matched = true
		}
		if matched {
			stats.OrderCount++
		}
	}

	stats.PriceRange = VariantPriceRange(variants)
	return stats
}

// VariantPriceRange returns the min/max sale price across variants, or the
// zero range when there are none.
func VariantPriceRange(variants []models.ProductVariant) PriceRange {
	var r PriceRange
	for i, v := range variants {
		if i == 0 {
			r.Min = v.Price
			r.Max = v.Price
			continue
		}
		if v.Price.LessThan(r.Min) {
			r.Min = v.Price
		}
		if v.Price.GreaterThan(r.Max) {
			r.Max = v.Price
		}
	}
	return r
}

// TopSupplier is one entry of the dashboard's supplier leaderboard.
type TopSupplier struct {
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Name        string          `json:"name"`
	OrdersCount int             `json:"orders_count"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// StatusCount is one slice of the production status histogram.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int               `json:"count"`
}

// DashboardKPI aggregates the landing-page indicators across all orders.
type DashboardKPI struct {
	OrdersInProgress   int             `json:"orders_in_progress"`
	TotalOrderValue    decimal.Decimal `json:"total_order_value"`
	AverageLeadTime    float64         `json:"average_lead_time"`
	QualityRate        float64         `json:"quality_rate"`
	OnTimeDeliveryRate float64         `json:"on_time_delivery_rate"`
	ReturnRate         float64         `json:"return_rate"`
	TopSuppliers       []TopSupplier   `json:"top_suppliers"`
	ProductionStatus   []StatusCount   `json:"production_status"`
}

const topSupplierLimit = 5

// ComputeDashboardKPI reduces all orders, suppliers and returns into the
// dashboard indicators.
func ComputeDashboardKPI(orders []models.Order, suppliers []models.Supplier, returns []models.Return) DashboardKPI {
	completed, active := performance.Partition(orders)

	kpi := DashboardKPI{
		OrdersInProgress:   len(active),
		TotalOrderValue:    decimal.Zero,
		AverageLeadTime:    performance.AverageLeadTimeDays(completed),
		QualityRate:        performance.QualityRate(completed),
		OnTimeDeliveryRate: performance.OnTimeRate(completed),
	}

	statusCounts := map[enums.OrderStatus]int{}
	perSupplier := map[uuid.UUID]*TopSupplier{}

	for _, order := range orders {
		if order.Status == enums.OrderStatusCancelled {
			continue
		}
		kpi.TotalOrderValue = kpi.TotalOrderValue.Add(order.TotalAmount)
		statusCounts[order.Status]++

		entry, ok := perSupplier[order.SupplierID]
		if !ok {
			entry = &TopSupplier{SupplierID: order.SupplierID, TotalValue: decimal.Zero}
			perSupplier[order.SupplierID] = entry
		}
		entry.OrdersCount++
		entry.TotalValue = entry.TotalValue.Add(order.TotalAmount)
	}

	if total := len(orders); total > 0 {
		kpi.ReturnRate = float64(len(returns)) / float64(total) * 100
	}

	names := map[uuid.UUID]string{}
	for _, supplier := range suppliers {
		names[supplier.ID] = supplier.Name
	}

	for id, entry := range perSupplier {
		entry.Name = names[id]
		kpi.TopSuppliers = append(kpi.TopSuppliers, *entry)
	}
	sort.Slice(kpi.TopSuppliers, func(i, j int) bool {
		a, b := kpi.TopSuppliers[i], kpi.TopSuppliers[j]
		if a.OrdersCount != b.OrdersCount {
			return a.OrdersCount > b.OrdersCount
		}
		return a.TotalValue.GreaterThan(b.TotalValue)
	})
	if len(kpi.TopSuppliers) > topSupplierLimit {
		kpi.TopSuppliers = kpi.TopSuppliers[:topSupplierLimit]
	}

	for _, status := range enums.OrderStatusValues() {
		if count := statusCounts[status]; count > 0 {
			kpi.ProductionStatus = append(kpi.ProductionStatus, StatusCount{Status: status, Count: count})
		}
	}

	return kpi
}
