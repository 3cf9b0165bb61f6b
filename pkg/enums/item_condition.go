package enums

import "fmt"

// ItemCondition describes the physical state recorded at intake.
type ItemCondition string

const (
	ItemConditionNew        ItemCondition = "new"
	ItemConditionLikeNew    ItemCondition = "like_new"
	ItemConditionGood       ItemCondition = "good"
	ItemConditionFair       ItemCondition = "fair"
	ItemConditionPoor       ItemCondition = "poor"
	ItemConditionSalvage    ItemCondition = "salvage"
	ItemConditionOpenBox    ItemCondition = "open_box"
	ItemConditionRefurbMade ItemCondition = "refurbished"
)

var validItemConditions = []ItemCondition{
	ItemConditionNew,
	ItemConditionLikeNew,
	ItemConditionGood,
	ItemConditionFair,
	ItemConditionPoor,
	ItemConditionSalvage,
	ItemConditionOpenBox,
	ItemConditionRefurbMade,
}

// String implements fmt.Stringer.
func (i ItemCondition) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCondition.
func (i ItemCondition) IsValid() bool {
	for _, candidate := range validItemConditions {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemCondition converts raw input into an ItemCondition.
func ParseItemCondition(value string) (ItemCondition, error) {
	for _, candidate := range validItemConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item condition %q", value)
}
