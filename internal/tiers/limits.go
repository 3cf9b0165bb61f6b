// Package tiers evaluates subscription plan limits. The plan table is static
// configuration compiled into the binary; nothing here reads mutable state.
package tiers

import (
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Unlimited is the sentinel for numeric limits without a cap.
const Unlimited = -1

// LimitKind discriminates the two shapes a limit value can take.
type LimitKind int

const (
	// KindBool is an on/off feature flag.
	KindBool LimitKind = iota
	// KindNumeric is a count cap, with Unlimited meaning no cap.
	KindNumeric
)

// LimitValue is a tagged union: either a feature flag or a numeric cap.
type LimitValue struct {
	kind    LimitKind
	enabled bool
	max     int
}

// BoolLimit builds a feature-flag limit.
func BoolLimit(enabled bool) LimitValue {
	return LimitValue{kind: KindBool, enabled: enabled}
}

// NumericLimit builds a count cap. Pass Unlimited for no cap.
func NumericLimit(max int) LimitValue {
	return LimitValue{kind: KindNumeric, max: max}
}

// Kind returns the discriminator.
func (v LimitValue) Kind() LimitKind { return v.kind }

// Enabled returns the flag value for boolean limits. Numeric limits report
// true unless they are zero, so feature checks degrade sanely on a miswired key.
func (v LimitValue) Enabled() bool {
	if v.kind == KindBool {
		return v.enabled
	}
	return v.max != 0
}

// Max returns the numeric cap. Meaningless for boolean limits.
func (v LimitValue) Max() int { return v.max }

// IsUnlimited reports whether a numeric limit has no cap.
func (v LimitValue) IsUnlimited() bool {
	return v.kind == KindNumeric && v.max == Unlimited
}

// Lookup returns the limit value for a tier and key. Unknown combinations
// fall back to the free tier's value, and ultimately to a zero numeric cap
// (deny) so a missing table entry can never grant unlimited access.
func Lookup(tier enums.SubscriptionTier, key enums.LimitKey) LimitValue {
	if plan, ok := planTable[tier]; ok {
		if v, ok := plan[key]; ok {
			return v
		}
	}
	if plan, ok := planTable[enums.TierFree]; ok {
		if v, ok := plan[key]; ok {
			return v
		}
	}
	return NumericLimit(0)
}

// CanPerform reports whether the next action is allowed under the tier's
// limit for key, given how many matching records already exist.
//
// Boolean limits ignore the count. Unlimited numeric limits always allow.
// Otherwise the check is strict less-than: sitting at the cap blocks the next
// creation but never invalidates existing records.
func CanPerform(tier enums.SubscriptionTier, key enums.LimitKey, currentCount int) bool {
	limit := Lookup(tier, key)
	switch limit.Kind() {
	case KindBool:
		return limit.Enabled()
	default:
		if limit.IsUnlimited() {
			return true
		}
		return currentCount < limit.Max()
	}
}

// UsagePercent returns current usage as a percentage of the cap, or nil when
// no percentage is meaningful (boolean limits and unlimited caps).
func UsagePercent(tier enums.SubscriptionTier, key enums.LimitKey, currentCount int) *float64 {
	limit := Lookup(tier, key)
	if limit.Kind() != KindNumeric || limit.IsUnlimited() || limit.Max() <= 0 {
		return nil
	}
	pct := float64(currentCount) / float64(limit.Max()) * 100
	return &pct
}

// RetentionConfig is the photo retention policy input for a tier.
type RetentionConfig struct {
	RetentionDays  int
	KeepFirstPhoto bool
}

// RetentionFor returns the archived-photo retention settings for a tier.
func RetentionFor(tier enums.SubscriptionTier) RetentionConfig {
	days := Lookup(tier, enums.LimitPhotoRetentionDays)
	keep, ok := keepFirstPhotoByTier[tier]
	if !ok {
		keep = true
	}
	return RetentionConfig{
		RetentionDays:  days.Max(),
		KeepFirstPhoto: keep,
	}
}
