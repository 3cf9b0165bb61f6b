package tiers

import (
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// planTable is the published limit matrix. Active and archived caps are
// tracked independently: completing a pallet or selling an item counts
// against the archived cap, never the active one.
var planTable = map[enums.SubscriptionTier]map[enums.LimitKey]LimitValue{
	enums.TierFree: {
		enums.LimitActivePallets:        NumericLimit(2),
		enums.LimitArchivedPallets:      NumericLimit(10),
		enums.LimitActiveItems:          NumericLimit(50),
		enums.LimitArchivedItems:        NumericLimit(200),
		enums.LimitPhotosPerItem:        NumericLimit(3),
		enums.LimitPhotoRetentionDays:   NumericLimit(30),
		enums.LimitAIDescriptions:       NumericLimit(5),
		enums.LimitAnalyticsRetention:   NumericLimit(30),
		enums.LimitCSVExport:            BoolLimit(false),
		enums.LimitExpenseTracking:      BoolLimit(true),
		enums.LimitMileageTracking:      BoolLimit(false),
		enums.LimitBulkOperations:       BoolLimit(false),
		enums.LimitCustomStaleThreshold: BoolLimit(false),
	},
	enums.TierStarter: {
		enums.LimitActivePallets:        NumericLimit(10),
		enums.LimitArchivedPallets:      NumericLimit(50),
		enums.LimitActiveItems:          NumericLimit(250),
		enums.LimitArchivedItems:        NumericLimit(1000),
		enums.LimitPhotosPerItem:        NumericLimit(6),
		enums.LimitPhotoRetentionDays:   NumericLimit(90),
		enums.LimitAIDescriptions:       NumericLimit(25),
		enums.LimitAnalyticsRetention:   NumericLimit(90),
		enums.LimitCSVExport:            BoolLimit(true),
		enums.LimitExpenseTracking:      BoolLimit(true),
		enums.LimitMileageTracking:      BoolLimit(true),
		enums.LimitBulkOperations:       BoolLimit(false),
		enums.LimitCustomStaleThreshold: BoolLimit(true),
	},
	enums.TierPro: {
		enums.LimitActivePallets:        NumericLimit(50),
		enums.LimitArchivedPallets:      NumericLimit(Unlimited),
		enums.LimitActiveItems:          NumericLimit(2500),
		enums.LimitArchivedItems:        NumericLimit(Unlimited),
		enums.LimitPhotosPerItem:        NumericLimit(12),
		enums.LimitPhotoRetentionDays:   NumericLimit(365),
		enums.LimitAIDescriptions:       NumericLimit(100),
		enums.LimitAnalyticsRetention:   NumericLimit(365),
		enums.LimitCSVExport:            BoolLimit(true),
		enums.LimitExpenseTracking:      BoolLimit(true),
		enums.LimitMileageTracking:      BoolLimit(true),
		enums.LimitBulkOperations:       BoolLimit(true),
		enums.LimitCustomStaleThreshold: BoolLimit(true),
	},
	enums.TierEnterprise: {
		enums.LimitActivePallets:        NumericLimit(Unlimited),
		enums.LimitArchivedPallets:      NumericLimit(Unlimited),
		enums.LimitActiveItems:          NumericLimit(Unlimited),
		enums.LimitArchivedItems:        NumericLimit(Unlimited),
		enums.LimitPhotosPerItem:        NumericLimit(24),
		enums.LimitPhotoRetentionDays:   NumericLimit(Unlimited),
		enums.LimitAIDescriptions:       NumericLimit(Unlimited),
		enums.LimitAnalyticsRetention:   NumericLimit(Unlimited),
		enums.LimitCSVExport:            BoolLimit(true),
		enums.LimitExpenseTracking:      BoolLimit(true),
		enums.LimitMileageTracking:      BoolLimit(true),
		enums.LimitBulkOperations:       BoolLimit(true),
		enums.LimitCustomStaleThreshold: BoolLimit(true),
	},
}

// keepFirstPhotoByTier guards the last remaining photo during cleanup.
var keepFirstPhotoByTier = map[enums.SubscriptionTier]bool{
	enums.TierFree:       true,
	enums.TierStarter:    true,
	enums.TierPro:        true,
	enums.TierEnterprise: true,
}
