// Package insights classifies inventory health: stale listings, lifecycle
// counts, pallet completion readiness and a prioritized feed of short,
// actionable observations. Everything here is a pure function over a
// snapshot; the threshold and clock arrive in a Config, never from globals.
package insights

import (
	"time"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// DefaultStaleThresholdDays applies when no tier or user override is set.
const DefaultStaleThresholdDays = 30

// Config carries the analyzer inputs that vary per user and per call.
type Config struct {
	StaleThresholdDays int
	Now                time.Time
}

func (c Config) normalized() Config {
	if c.StaleThresholdDays <= 0 {
		c.StaleThresholdDays = DefaultStaleThresholdDays
	}
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	c.Now = c.Now.UTC()
	return c
}

// DaysListed returns full days elapsed since the item was listed, or zero
// when it has no listing date.
func DaysListed(item models.Item, now time.Time) int {
	if item.ListedAt == nil || item.ListedAt.IsZero() {
		return 0
	}
	elapsed := now.UTC().Sub(item.ListedAt.UTC())
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}

// IsStale reports whether a listed item has aged past the threshold.
// Unlisted and sold items are never stale.
func IsStale(item models.Item, cfg Config) bool {
	cfg = cfg.normalized()
	if item.Status != enums.ItemStatusListed {
		return false
	}
	if item.ListedAt == nil || item.ListedAt.IsZero() {
		return false
	}
	return DaysListed(item, cfg.Now) >= cfg.StaleThresholdDays
}

// StaleItems filters the snapshot down to stale listings, oldest first.
func StaleItems(items []models.Item, cfg Config) []models.Item {
	cfg = cfg.normalized()
	var stale []models.Item
	for _, item := range items {
		if IsStale(item, cfg) {
			stale = append(stale, item)
		}
	}
	for i := 1; i < len(stale); i++ {
		for j := i; j > 0 && stale[j].ListedAt.Before(*stale[j-1].ListedAt); j-- {
			stale[j], stale[j-1] = stale[j-1], stale[j]
		}
	}
	return stale
}

// StatusCounts partitions items by lifecycle status.
type StatusCounts struct {
	Unlisted int `json:"unlisted"`
	Listed   int `json:"listed"`
	Sold     int `json:"sold"`
}

// CountByStatus tallies the snapshot.
func CountByStatus(items []models.Item) StatusCounts {
	var counts StatusCounts
	for _, item := range items {
		switch item.Status {
		case enums.ItemStatusUnlisted:
			counts.Unlisted++
		case enums.ItemStatusListed:
			counts.Listed++
		case enums.ItemStatusSold:
			counts.Sold++
		}
	}
	return counts
}

// ReadyToComplete reports whether a pallet can be archived: it is being
// processed, has at least one item, none of them are unlisted, and the user
// has not dismissed the completion prompt. Dismissal is stored on the pallet
// row and only consulted here.
func ReadyToComplete(pallet models.Pallet, palletItems []models.Item) bool {
	if pallet.Status != enums.PalletStatusProcessing {
		return false
	}
	if pallet.CompletionPromptDismissed {
		return false
	}
	if len(palletItems) == 0 {
		return false
	}
	for _, item := range palletItems {
		if item.Status == enums.ItemStatusUnlisted {
			return false
		}
	}
	return true
}
