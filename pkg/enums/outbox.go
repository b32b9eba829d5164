package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder     OutboxAggregateType = "order"
	AggregateSupplier  OutboxAggregateType = "supplier"
	AggregateProduct   OutboxAggregateType = "product"
	AggregatePriceList OutboxAggregateType = "price_list"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateSupplier,
	AggregateProduct,
	AggregatePriceList,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderCreated        OutboxEventType = "order_created"
	EventOrderStatusChanged  OutboxEventType = "order_status_changed"
	EventOrderDelivered      OutboxEventType = "order_delivered"
	EventOrderCompleted      OutboxEventType = "order_completed"
	EventOrderCancelled      OutboxEventType = "order_cancelled"
	EventPriceListExpired    OutboxEventType = "price_list_expired"
	EventSupplierRated       OutboxEventType = "supplier_rated"
	EventDiscountTierUpdated OutboxEventType = "discount_tier_updated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderStatusChanged,
	EventOrderDelivered,
	EventOrderCompleted,
	EventOrderCancelled,
	EventPriceListExpired,
	EventSupplierRated,
	EventDiscountTierUpdated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
