package enums

import "fmt"

// PalletStatus tracks a pallet through its processing lifecycle.
// Status only ever moves forward: unprocessed -> processing -> completed.
type PalletStatus string

const (
	PalletStatusUnprocessed PalletStatus = "unprocessed"
	PalletStatusProcessing  PalletStatus = "processing"
	PalletStatusCompleted   PalletStatus = "completed"
)

var validPalletStatuses = []PalletStatus{
	PalletStatusUnprocessed,
	PalletStatusProcessing,
	PalletStatusCompleted,
}

// String implements fmt.Stringer.
func (p PalletStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PalletStatus.
func (p PalletStatus) IsValid() bool {
	for _, candidate := range validPalletStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Regressions are never allowed.
func (p PalletStatus) CanTransitionTo(next PalletStatus) bool {
	switch p {
	case PalletStatusUnprocessed:
		return next == PalletStatusProcessing || next == PalletStatusCompleted
	case PalletStatusProcessing:
		return next == PalletStatusCompleted
	default:
		return false
	}
}

// ParsePalletStatus converts raw input into a PalletStatus.
func ParsePalletStatus(value string) (PalletStatus, error) {
	for _, candidate := range validPalletStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pallet status %q", value)
}
