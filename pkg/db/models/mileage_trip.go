package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// MileageTrip records deductible driving. Rate is locked at creation and the
// deduction is persisted at write time; a later change to the global rate
// never rewrites existing rows.
type MileageTrip struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	TripDate  time.Time         `gorm:"column:trip_date;type:date;not null"`
	Purpose   enums.TripPurpose `gorm:"column:purpose;type:trip_purpose;not null"`
	Miles     decimal.Decimal   `gorm:"column:miles;type:numeric(6,1);not null"`
	Rate      decimal.Decimal   `gorm:"column:rate;type:numeric(6,3);not null"`
	Deduction decimal.Decimal   `gorm:"column:deduction;type:numeric(12,2);not null"`
	Pallets   []Pallet          `gorm:"many2many:mileage_trip_pallet_links;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
