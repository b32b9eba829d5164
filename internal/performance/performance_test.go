package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stefanobartoli/filiera-backend/pkg/db/models"
	"github.com/stefanobartoli/filiera-backend/pkg/enums"
)

func day(offset int) time.Time {
	return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func completedOrder(ordered, expected int, actual *int) models.Order {
	order := models.Order{
		Status:               enums.OrderStatusCompleted,
		OrderDate:            day(ordered),
		ExpectedDeliveryDate: day(expected),
	}
	if actual != nil {
		delivered := day(*actual)
		order.ActualDeliveryDate = &delivered
	}
	return order
}

func intPtr(v int) *int { return &v }

func gradePtr(g enums.QualityGrade) *enums.QualityGrade { return &g }

func TestPartition(t *testing.T) {
	orders := []models.Order{
		{Status: enums.OrderStatusCompleted},
		{Status: enums.OrderStatusCancelled},
		{Status: enums.OrderStatusProduction},
		{Status: enums.OrderStatusShipped},
		{Status: enums.OrderStatusDraft},
	}

	completed, active := Partition(orders)
	assert.Len(t, completed, 1)
	assert.Len(t, active, 3, "cancelled orders belong to neither set")
}

func TestOnTimeRate(t *testing.T) {
	onTime := completedOrder(0, 20, intPtr(18))
	late := completedOrder(0, 20, intPtr(25))

	assert.Equal(t, 50.0, OnTimeRate([]models.Order{onTime, late}))
	assert.Equal(t, 100.0, OnTimeRate([]models.Order{onTime}))
	assert.Equal(t, 0.0, OnTimeRate(nil))

	// delivery exactly on the expected date is on time
	exact := completedOrder(0, 20, intPtr(20))
	assert.Equal(t, 100.0, OnTimeRate([]models.Order{exact}))

	// no actual delivery date counts as late
	undelivered := completedOrder(0, 20, nil)
	assert.Equal(t, 0.0, OnTimeRate([]models.Order{undelivered}))
}

func TestAverageLeadTimeDays(t *testing.T) {
	orders := []models.Order{
		completedOrder(0, 30, intPtr(20)), // 20 days
		completedOrder(0, 30, intPtr(30)), // 30 days
		completedOrder(0, 30, nil),        // excluded entirely
	}

	assert.Equal(t, 25.0, AverageLeadTimeDays(orders))
	assert.Equal(t, 0.0, AverageLeadTimeDays(nil))
	assert.Equal(t, 0.0, AverageLeadTimeDays([]models.Order{completedOrder(0, 30, nil)}))
}

func TestAverageLeadTimeDaysCeilsPartialDays(t *testing.T) {
	order := models.Order{
		Status:    enums.OrderStatusCompleted,
		OrderDate: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	delivered := time.Date(2026, 2, 11, 18, 0, 0, 0, time.UTC) // 10 days 6 hours
	order.ActualDeliveryDate = &delivered

	assert.Equal(t, 11.0, AverageLeadTimeDays([]models.Order{order}))
}

func TestQualityRate(t *testing.T) {
	pass := completedOrder(0, 10, intPtr(9))
	pass.Items = []models.OrderItem{
		{QualityGrade: gradePtr(enums.QualityGradeA)},
		{QualityGrade: gradePtr(enums.QualityGradeB)},
	}

	fail := completedOrder(0, 10, intPtr(9))
	fail.Items = []models.OrderItem{
		{QualityGrade: gradePtr(enums.QualityGradeA)},
		{QualityGrade: gradePtr(enums.QualityGradeC)},
	}

	assert.Equal(t, 50.0, QualityRate([]models.Order{pass, fail}))
	assert.Equal(t, 0.0, QualityRate(nil))

	// a single ungraded item fails the whole order
	ungraded := completedOrder(0, 10, intPtr(9))
	ungraded.Items = []models.OrderItem{
		{QualityGrade: gradePtr(enums.QualityGradeA)},
		{},
	}
	assert.Equal(t, 0.0, QualityRate([]models.Order{ungraded}))

	// no items means nothing was inspected
	empty := completedOrder(0, 10, intPtr(9))
	assert.Equal(t, 0.0, QualityRate([]models.Order{empty}))
}

func TestComputeSnapshot(t *testing.T) {
	onTime := completedOrder(0, 20, intPtr(18))
	onTime.Items = []models.OrderItem{{QualityGrade: gradePtr(enums.QualityGradeA)}}
	late := completedOrder(0, 20, intPtr(30))
	late.Items = []models.OrderItem{{QualityGrade: gradePtr(enums.QualityGradeReject)}}

	orders := []models.Order{
		onTime,
		late,
		{Status: enums.OrderStatusProduction},
		{Status: enums.OrderStatusCancelled},
	}

	snapshot := Compute(orders)
	assert.Equal(t, 2, snapshot.CompletedOrders)
	assert.Equal(t, 1, snapshot.ActiveOrders)
	assert.Equal(t, 50.0, snapshot.OnTimeRate)
	assert.Equal(t, 24.0, snapshot.AverageLeadTimeDays)
	assert.Equal(t, 50.0, snapshot.QualityRate)
}

func TestRatingBreakdown(t *testing.T) {
	history := []models.QualityRating{
		{QualityScore: 4, DeliveryScore: 5, CommunicationScore: 3, PriceScore: 4},
		{QualityScore: 2, DeliveryScore: 3, CommunicationScore: 5, PriceScore: 4},
	}

	breakdown := RatingBreakdown(history)
	assert.Equal(t, 3.0, breakdown.Quality)
	assert.Equal(t, 4.0, breakdown.Delivery)
	assert.Equal(t, 4.0, breakdown.Communication)
	assert.Equal(t, 4.0, breakdown.Price)
	assert.Equal(t, 2, breakdown.Ratings)
	assert.InDelta(t, 3.75, breakdown.Mean(), 1e-9)
}

func TestRatingBreakdownEmpty(t *testing.T) {
	breakdown := RatingBreakdown(nil)
	assert.Equal(t, Breakdown{}, breakdown)
	assert.Equal(t, 0.0, breakdown.Mean())
}

func TestDivergence(t *testing.T) {
	history := []models.QualityRating{
		{QualityScore: 4, DeliveryScore: 4, CommunicationScore: 4, PriceScore: 4},
	}
	breakdown := RatingBreakdown(history)

	assert.InDelta(t, 0.5, Divergence(4.5, breakdown), 1e-9)
	assert.InDelta(t, 0.5, Divergence(3.5, breakdown), 1e-9)
	assert.Equal(t, 0.0, Divergence(4.8, RatingBreakdown(nil)))
}
