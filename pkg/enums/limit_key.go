package enums

import "fmt"

// LimitKey identifies a single tier limit in the plan table.
type LimitKey string

const (
	LimitActivePallets        LimitKey = "active_pallets"
	LimitArchivedPallets      LimitKey = "archived_pallets"
	LimitActiveItems          LimitKey = "active_items"
	LimitArchivedItems        LimitKey = "archived_items"
	LimitPhotosPerItem        LimitKey = "photos_per_item"
	LimitPhotoRetentionDays   LimitKey = "photo_retention_days"
	LimitAIDescriptions       LimitKey = "ai_descriptions_per_month"
	LimitAnalyticsRetention   LimitKey = "analytics_retention_days"
	LimitCSVExport            LimitKey = "csv_export"
	LimitExpenseTracking      LimitKey = "expense_tracking"
	LimitMileageTracking      LimitKey = "mileage_tracking"
	LimitBulkOperations       LimitKey = "bulk_operations"
	LimitCustomStaleThreshold LimitKey = "custom_stale_threshold"
)

var validLimitKeys = []LimitKey{
	LimitActivePallets,
	LimitArchivedPallets,
	LimitActiveItems,
	LimitArchivedItems,
	LimitPhotosPerItem,
	LimitPhotoRetentionDays,
	LimitAIDescriptions,
	LimitAnalyticsRetention,
	LimitCSVExport,
	LimitExpenseTracking,
	LimitMileageTracking,
	LimitBulkOperations,
	LimitCustomStaleThreshold,
}

// String implements fmt.Stringer.
func (l LimitKey) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LimitKey.
func (l LimitKey) IsValid() bool {
	for _, candidate := range validLimitKeys {
		if candidate == l {
			return true
		}
	}
	return false
}

// LimitKeys returns every known limit key in a stable order.
func LimitKeys() []LimitKey {
	keys := make([]LimitKey, len(validLimitKeys))
	copy(keys, validLimitKeys)
	return keys
}

// ParseLimitKey converts raw input into a LimitKey.
func ParseLimitKey(value string) (LimitKey, error) {
	for _, candidate := range validLimitKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid limit key %q", value)
}
