package enums

import "fmt"

// TripPurpose classifies a mileage trip for deduction records.
type TripPurpose string

const (
	TripPurposeSourcing TripPurpose = "sourcing"
	TripPurposeShipping TripPurpose = "shipping"
	TripPurposeSupplies TripPurpose = "supplies"
	TripPurposeOther    TripPurpose = "other"
)

var validTripPurposes = []TripPurpose{
	TripPurposeSourcing,
	TripPurposeShipping,
	TripPurposeSupplies,
	TripPurposeOther,
}

// String implements fmt.Stringer.
func (t TripPurpose) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TripPurpose.
func (t TripPurpose) IsValid() bool {
	for _, candidate := range validTripPurposes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTripPurpose converts raw input into a TripPurpose.
func ParseTripPurpose(value string) (TripPurpose, error) {
	for _, candidate := range validTripPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip purpose %q", value)
}
