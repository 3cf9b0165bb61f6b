package insights

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palletbase/palletbase-backend/pkg/db/models"
	"github.com/palletbase/palletbase-backend/pkg/enums"
)

func TestGenerateOrdersByPriority(t *testing.T) {
	cfg := Config{StaleThresholdDays: 30, Now: insightsNow}
	palletID := uuid.New()
	pallet := models.Pallet{ID: palletID, Name: "March electronics lot", Status: enums.PalletStatusProcessing}

	oldListing := insightsNow.AddDate(0, 0, -60)
	items := []models.Item{
		{ID: uuid.New(), PalletID: &palletID, Name: "Stale lamp", Status: enums.ItemStatusListed, ListedAt: &oldListing},
		{ID: uuid.New(), PalletID: &palletID, Status: enums.ItemStatusSold},
		{ID: uuid.New(), Status: enums.ItemStatusUnlisted},
	}

	feed := Generate([]models.Pallet{pallet}, items, cfg)
	require.Len(t, feed, 3)
	assert.Equal(t, InsightStaleItems, feed[0].Type)
	assert.Equal(t, InsightPalletReady, feed[1].Type)
	assert.Equal(t, InsightUnlistedQueue, feed[2].Type)
}

func TestStaleInsightTargetsOldestItem(t *testing.T) {
	cfg := Config{StaleThresholdDays: 30, Now: insightsNow}
	oldest := listedItem("forgotten blender", 120)
	items := []models.Item{listedItem("mid", 45), oldest}

	feed := Generate(nil, items, cfg)
	require.NotEmpty(t, feed)
	require.Equal(t, InsightStaleItems, feed[0].Type)
	require.NotNil(t, feed[0].ItemID)
	assert.Equal(t, oldest.ID, *feed[0].ItemID)
	assert.Equal(t, 2, feed[0].Count)
}

func TestSingleStaleItemNamedInMessage(t *testing.T) {
	cfg := Config{StaleThresholdDays: 30, Now: insightsNow}
	feed := Generate(nil, []models.Item{listedItem("forgotten blender", 45)}, cfg)

	require.NotEmpty(t, feed)
	assert.Contains(t, feed[0].Message, "forgotten blender")
	assert.Contains(t, feed[0].Message, "45")
}

func TestPalletReadyCarriesNavigationTarget(t *testing.T) {
	cfg := Config{Now: insightsNow}
	palletID := uuid.New()
	pallet := models.Pallet{ID: palletID, Name: "shoes", Status: enums.PalletStatusProcessing}
	items := []models.Item{{ID: uuid.New(), PalletID: &palletID, Status: enums.ItemStatusSold}}

	feed := Generate([]models.Pallet{pallet}, items, cfg)
	require.Len(t, feed, 1)
	require.Equal(t, InsightPalletReady, feed[0].Type)
	require.NotNil(t, feed[0].PalletID)
	assert.Equal(t, palletID, *feed[0].PalletID)
}

func TestEmptyStateNewUser(t *testing.T) {
	feed := Generate(nil, nil, Config{Now: insightsNow})

	require.Len(t, feed, 1)
	assert.Equal(t, InsightNewUser, feed[0].Type)
}

func TestEmptyStateNoSalesYet(t *testing.T) {
	recent := insightsNow.AddDate(0, 0, -3)
	items := []models.Item{{Status: enums.ItemStatusListed, ListedAt: &recent}}

	feed := Generate(nil, items, Config{Now: insightsNow})
	require.Len(t, feed, 1)
	assert.Equal(t, InsightNoSalesYet, feed[0].Type)
}

func TestEmptyStateAllClear(t *testing.T) {
	items := []models.Item{{Status: enums.ItemStatusSold}}

	feed := Generate(nil, items, Config{Now: insightsNow})
	require.Len(t, feed, 1)
	assert.Equal(t, InsightAllClear, feed[0].Type)
}

func TestDismissedPalletProducesNoReadyInsight(t *testing.T) {
	palletID := uuid.New()
	pallet := models.Pallet{
		ID:                        palletID,
		Status:                    enums.PalletStatusProcessing,
		CompletionPromptDismissed: true,
	}
	items := []models.Item{{ID: uuid.New(), PalletID: &palletID, Status: enums.ItemStatusSold}}

	feed := Generate([]models.Pallet{pallet}, items, Config{Now: insightsNow})
	require.Len(t, feed, 1)
	assert.Equal(t, InsightAllClear, feed[0].Type)
}
