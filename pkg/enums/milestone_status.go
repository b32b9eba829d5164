package enums

import "fmt"

// MilestoneStatus tracks a production milestone within an order.
type MilestoneStatus string

const (
	MilestoneStatusScheduled  MilestoneStatus = "programmato"
	MilestoneStatusInProgress MilestoneStatus = "in-corso"
	MilestoneStatusCompleted  MilestoneStatus = "completato"
	MilestoneStatusDelayed    MilestoneStatus = "ritardato"
	MilestoneStatusSkipped    MilestoneStatus = "saltato"
)

var validMilestoneStatuses = []MilestoneStatus{
	MilestoneStatusScheduled,
	MilestoneStatusInProgress,
	MilestoneStatusCompleted,
	MilestoneStatusDelayed,
	MilestoneStatusSkipped,
}

// IsValid reports whether the value is a known MilestoneStatus.
func (s MilestoneStatus) IsValid() bool {
	for _, candidate := range validMilestoneStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMilestoneStatus converts the raw string to MilestoneStatus.
func ParseMilestoneStatus(value string) (MilestoneStatus, error) {
	for _, candidate := range validMilestoneStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid milestone status %q", value)
}
