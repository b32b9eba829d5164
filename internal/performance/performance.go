// Package performance rolls order and rating history up into supplier
// metrics. All functions are pure reductions; empty inputs yield zero
// values, never errors.
package performance

import (
	"math"
	"time"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

// Snapshot bundles the delivery and quality metrics for one supplier.
type Snapshot struct {
	CompletedOrders     int     `json:"completed_orders"`
	ActiveOrders        int     `json:"active_orders"`
	OnTimeRate          float64 `json:"on_time_rate"`
	AverageLeadTimeDays float64 `json:"average_lead_time_days"`
	QualityRate         float64 `json:"quality_rate"`
}

// Compute builds the full snapshot from a supplier's order history.
func Compute(orders []models.Order) Snapshot {
	completed, active := Partition(orders)
	return Snapshot{
		CompletedOrders:     len(completed),
		ActiveOrders:        len(active),
		OnTimeRate:          OnTimeRate(completed),
		AverageLeadTimeDays: AverageLeadTimeDays(completed),
		QualityRate:         QualityRate(completed),
	}
}

// Partition splits orders into completed and still-active sets. Cancelled
// orders belong to neither.
func Partition(orders []models.Order) (completed, active []models.Order) {
	for _, order := range orders {
		switch order.Status {
		case enums.OrderStatusCompleted:
			completed = append(completed, order)
		case enums.OrderStatusCancelled:
		default:
			active = append(active, order)
		}
	}
	return completed, active
}

// OnTimeRate is the percentage of completed orders delivered on or before
// the expected date. Orders without an actual delivery date count as late.
func OnTimeRate(completed []models.Order) float64 {
	if len(completed) == 0 {
		return 0
	}
	onTime := 0
	for _, order := range completed {
		if order.ActualDeliveryDate != nil && !order.ActualDeliveryDate.After(order.ExpectedDeliveryDate) {
			onTime++
		}
	}
	return float64(onTime) / float64(len(completed)) * 100
}

// AverageLeadTimeDays is the mean of ceil(actual - orderDate) in days over
// completed orders that have an actual delivery date. Orders missing the
// date are excluded from both numerator and denominator.
func AverageLeadTimeDays(completed []models.Order) float64 {
	total := 0.0
	counted := 0
	for _, order := range completed {
		if order.ActualDeliveryDate == nil {
			continue
		}
		total += leadTimeDays(order.OrderDate, *order.ActualDeliveryDate)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func leadTimeDays(from, to time.Time) float64 {
	days := to.Sub(from).Hours() / 24
	if days < 0 {
		return 0
	}
	return math.Ceil(days)
}

// QualityRate is the percentage of completed orders whose every item is
// graded A or B. A single ungraded, C or scarto item fails the whole order.
func QualityRate(completed []models.Order) float64 {
	if len(completed) == 0 {
		return 0
	}
	passing := 0
	for _, order := range completed {
		if orderPassesQuality(order) {
			passing++
		}
	}
	return float64(passing) / float64(len(completed)) * 100
}

func orderPassesQuality(order models.Order) bool {
	if len(order.Items) == 0 {
		return false
	}
	for _, item := range order.Items {
		if item.QualityGrade == nil || !item.QualityGrade.IsPassing() {
			return false
		}
	}
	return true
}

// Breakdown holds the independent means of the four rating sub-scores.
type Breakdown struct {
	Quality       float64 `json:"quality"`
	Delivery      float64 `json:"delivery"`
	Communication float64 `json:"communication"`
	Price         float64 `json:"price"`
	Ratings       int     `json:"ratings"`
}

// Mean is the average of the four sub-score means.
func (b Breakdown) Mean() float64 {
	if b.Ratings == 0 {
		return 0
	}
	return (b.Quality + b.Delivery + b.Communication + b.Price) / 4
}

// RatingBreakdown averages each sub-score independently across the history.
func RatingBreakdown(history []models.QualityRating) Breakdown {
	breakdown := Breakdown{Ratings: len(history)}
	if len(history) == 0 {
		return breakdown
	}
	for _, rating := range history {
		breakdown.Quality += rating.QualityScore
		breakdown.Delivery += rating.DeliveryScore
		breakdown.Communication += rating.CommunicationScore
		breakdown.Price += rating.PriceScore
	}
	n := float64(len(history))
	breakdown.Quality /= n
	breakdown.Delivery /= n
	breakdown.Communication /= n
	breakdown.Price /= n
	return breakdown
}

// Divergence is the absolute gap between the supplier's stored overall
// rating and the mean of its rating breakdown. The stored rating is never
// reconciled automatically; callers decide what to do with the gap.
func Divergence(storedOverall float64, breakdown Breakdown) float64 {
	if breakdown.Ratings == 0 {
		return 0
	}
	return math.Abs(storedOverall - breakdown.Mean())
}
