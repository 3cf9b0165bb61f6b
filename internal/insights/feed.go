package insights

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
)

// InsightType labels an entry in the feed so clients can route and render it.
type InsightType string

const (
	InsightStaleItems    InsightType = "stale_items"
	InsightPalletReady   InsightType = "pallet_ready"
	InsightUnlistedQueue InsightType = "unlisted_queue"
	InsightNewUser       InsightType = "new_user"
	InsightNoSalesYet    InsightType = "no_sales_yet"
	InsightAllClear      InsightType = "all_clear"
)

// Insight is one feed entry. ItemID or PalletID, when set, is the navigation
// target the client should open.
type Insight struct {
	Type     InsightType `json:"type"`
	Priority int         `json:"priority"`
	Message  string      `json:"message"`
	ItemID   *uuid.UUID  `json:"item_id,omitempty"`
	PalletID *uuid.UUID  `json:"pallet_id,omitempty"`
	Count    int         `json:"count,omitempty"`
}

// Generate builds the feed for one user's snapshot. Actionable entries come
// first, ordered by priority; when nothing is actionable the feed degrades
// through staged empty states rather than an empty list: a new user with no
// inventory, a user who has items but no sales yet, and finally all clear.
func Generate(pallets []models.Pallet, items []models.Item, cfg Config) []Insight {
	cfg = cfg.normalized()
	var feed []Insight

	stale := StaleItems(items, cfg)
	if len(stale) > 0 {
		oldest := stale[0]
		msg := fmt.Sprintf("%d items have been listed %d+ days without selling", len(stale), cfg.StaleThresholdDays)
		if len(stale) == 1 {
			msg = fmt.Sprintf("%q has been listed %d days without selling", oldest.Name, DaysListed(oldest, cfg.Now))
		}
		id := oldest.ID
		feed = append(feed, Insight{
			Type:     InsightStaleItems,
			Priority: 1,
			Message:  msg,
			ItemID:   &id,
			Count:    len(stale),
		})
	}

	itemsByPallet := make(map[uuid.UUID][]models.Item, len(pallets))
	for _, item := range items {
		if item.PalletID == nil {
			continue
		}
		itemsByPallet[*item.PalletID] = append(itemsByPallet[*item.PalletID], item)
	}
	for _, pallet := range pallets {
		if !ReadyToComplete(pallet, itemsByPallet[pallet.ID]) {
			continue
		}
		id := pallet.ID
		feed = append(feed, Insight{
			Type:     InsightPalletReady,
			Priority: 2,
			Message:  fmt.Sprintf("All items in %q are listed or sold. Mark it complete?", pallet.Name),
			PalletID: &id,
		})
	}

	counts := CountByStatus(items)
	if counts.Unlisted > 0 {
		feed = append(feed, Insight{
			Type:     InsightUnlistedQueue,
			Priority: 3,
			Message:  fmt.Sprintf("%d items are waiting to be listed", counts.Unlisted),
			Count:    counts.Unlisted,
		})
	}

	if len(feed) > 0 {
		sort.SliceStable(feed, func(i, j int) bool { return feed[i].Priority < feed[j].Priority })
		return feed
	}

	switch {
	case len(pallets) == 0 && len(items) == 0:
		return []Insight{{
			Type:     InsightNewUser,
			Priority: 10,
			Message:  "Add your first pallet to start tracking costs and profit",
		}}
	case counts.Sold == 0:
		return []Insight{{
			Type:     InsightNoSalesYet,
			Priority: 10,
			Message:  "No sales recorded yet. Profit metrics appear after your first sale",
		}}
	default:
		return []Insight{{
			Type:     InsightAllClear,
			Priority: 10,
			Message:  "Nothing needs attention right now",
		}}
	}
}
