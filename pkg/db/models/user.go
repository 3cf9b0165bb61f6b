package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// User carries the subscription tier and per-user engine settings. Identity
// and credentials live in the auth collaborator, not here.
type User struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email              string                 `gorm:"column:email;not null;uniqueIndex"`
	Tier               enums.SubscriptionTier `gorm:"column:tier;type:subscription_tier;not null;default:'free'"`
	StaleThresholdDays *int                   `gorm:"column:stale_threshold_days"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
