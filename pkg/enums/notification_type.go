package enums

import "fmt"

// NotificationType labels in-app notification payloads.
type NotificationType string

const (
	NotificationTypeStaleInventory  NotificationType = "stale_inventory"
	NotificationTypePalletReady     NotificationType = "pallet_ready"
	NotificationTypePhotosCleaned   NotificationType = "photos_cleaned"
	NotificationTypeLimitApproached NotificationType = "limit_approached"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeStaleInventory,
	NotificationTypePalletReady,
	NotificationTypePhotosCleaned,
	NotificationTypeLimitApproached,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
