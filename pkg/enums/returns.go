package enums

import "fmt"

// ReturnReason records why goods came back from the buyer.
type ReturnReason string

const (
	ReturnReasonQualityDefect  ReturnReason = "difetto-qualita"
	ReturnReasonWrongSize      ReturnReason = "taglia-errata"
	ReturnReasonWrongColor     ReturnReason = "colore-errato"
	ReturnReasonWrongMaterial  ReturnReason = "materiale-errato"
	ReturnReasonLateDelivery   ReturnReason = "ritardo-consegna"
	ReturnReasonSampleMismatch ReturnReason = "non-conforme-campione"
	ReturnReasonOther          ReturnReason = "altro"
)

var validReturnReasons = []ReturnReason{
	ReturnReasonQualityDefect,
	ReturnReasonWrongSize,
	ReturnReasonWrongColor,
	ReturnReasonWrongMaterial,
	ReturnReasonLateDelivery,
	ReturnReasonSampleMismatch,
	ReturnReasonOther,
}

// IsValid reports whether the value is a known ReturnReason.
func (r ReturnReason) IsValid() bool {
	for _, candidate := range validReturnReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReturnReason converts the raw string to ReturnReason.
func ParseReturnReason(value string) (ReturnReason, error) {
	for _, candidate := range validReturnReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid return reason %q", value)
}

// ReturnStatus tracks a return through authorization and refund.
type ReturnStatus string

const (
	ReturnStatusRequested  ReturnStatus = "richiesto"
	ReturnStatusAuthorized ReturnStatus = "autorizzato"
	ReturnStatusInTransit  ReturnStatus = "in-transito"
	ReturnStatusReceived   ReturnStatus = "ricevuto"
	ReturnStatusVerified   ReturnStatus = "verificato"
	ReturnStatusRefunded   ReturnStatus = "rimborsato"
	ReturnStatusRejected   ReturnStatus = "respinto"
)

var validReturnStatuses = []ReturnStatus{
	ReturnStatusRequested,
	ReturnStatusAuthorized,
	ReturnStatusInTransit,
	ReturnStatusReceived,
	ReturnStatusVerified,
	ReturnStatusRefunded,
	ReturnStatusRejected,
}

// IsValid reports whether the value is a known ReturnStatus.
func (s ReturnStatus) IsValid() bool {
	for _, candidate := range validReturnStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReturnStatus converts the raw string to ReturnStatus.
func ParseReturnStatus(value string) (ReturnStatus, error) {
	for _, candidate := range validReturnStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid return status %q", value)
}
