package enums

import "fmt"

// SalesChannel identifies the platform an item sold on.
type SalesChannel string

const (
	SalesChannelEbay        SalesChannel = "ebay"
	SalesChannelAmazon      SalesChannel = "amazon"
	SalesChannelMercari     SalesChannel = "mercari"
	SalesChannelPoshmark    SalesChannel = "poshmark"
	SalesChannelFacebook    SalesChannel = "facebook"
	SalesChannelOfferUp     SalesChannel = "offerup"
	SalesChannelWhatnot     SalesChannel = "whatnot"
	SalesChannelLocal       SalesChannel = "local"
	SalesChannelOtherOnline SalesChannel = "other"
)

var validSalesChannels = []SalesChannel{
	SalesChannelEbay,
	SalesChannelAmazon,
	SalesChannelMercari,
	SalesChannelPoshmark,
	SalesChannelFacebook,
	SalesChannelOfferUp,
	SalesChannelWhatnot,
	SalesChannelLocal,
	SalesChannelOtherOnline,
}

// String implements fmt.Stringer.
func (s SalesChannel) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SalesChannel.
func (s SalesChannel) IsValid() bool {
	for _, candidate := range validSalesChannels {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSalesChannel converts raw input into a SalesChannel.
func ParseSalesChannel(value string) (SalesChannel, error) {
	for _, candidate := range validSalesChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sales channel %q", value)
}
