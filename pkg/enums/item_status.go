package enums

import "fmt"

// ItemStatus tracks an item from intake through sale.
type ItemStatus string

const (
	ItemStatusUnlisted ItemStatus = "unlisted"
	ItemStatusListed   ItemStatus = "listed"
	ItemStatusSold     ItemStatus = "sold"
)

var validItemStatuses = []ItemStatus{
	ItemStatusUnlisted,
	ItemStatusListed,
	ItemStatusSold,
}

// String implements fmt.Stringer.
func (i ItemStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemStatus.
func (i ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next. Sold
// is terminal; selling is allowed from either live status.
func (i ItemStatus) CanTransitionTo(next ItemStatus) bool {
	switch i {
	case ItemStatusUnlisted:
		return next == ItemStatusListed || next == ItemStatusSold
	case ItemStatusListed:
		return next == ItemStatusUnlisted || next == ItemStatusSold
	default:
		return false
	}
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
