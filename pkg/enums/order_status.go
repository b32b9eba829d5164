package enums

import "fmt"

// OrderStatus tracks a purchase order through the production lifecycle.
// Values are the Italian labels the buying office works with.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "bozza"
	OrderStatusSent       OrderStatus = "inviato"
	OrderStatusConfirmed  OrderStatus = "confermato"
	OrderStatusProduction OrderStatus = "in-produzione"
	OrderStatusQC         OrderStatus = "controllo-qualita"
	OrderStatusShipped    OrderStatus = "spedito"
	OrderStatusDelivered  OrderStatus = "consegnato"
	OrderStatusCompleted  OrderStatus = "completato"
	OrderStatusCancelled  OrderStatus = "annullato"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusSent,
	OrderStatusConfirmed,
	OrderStatusProduction,
	OrderStatusQC,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// OrderStatusValues returns every known status in lifecycle order.
func OrderStatusValues() []OrderStatus {
	values := make([]OrderStatus, len(validOrderStatuses))
	copy(values, validOrderStatuses)
	return values
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
