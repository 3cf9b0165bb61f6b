package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Item is a single sellable unit, sourced from a pallet or individually.
//
// AllocatedCost is a manual override of the computed cost basis. Once set it
// is never silently recomputed; readers derive a basis only when it is null.
type Item struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	PalletID      *uuid.UUID          `gorm:"column:pallet_id;type:uuid"`
	Name          string              `gorm:"column:name;not null"`
	Quantity      int                 `gorm:"column:quantity;not null;default:1"`
	Condition     enums.ItemCondition `gorm:"column:condition;type:item_condition;not null"`
	RetailPrice   *decimal.Decimal    `gorm:"column:retail_price;type:numeric(12,2)"`
	ListingPrice  *decimal.Decimal    `gorm:"column:listing_price;type:numeric(12,2)"`
	SalePrice     *decimal.Decimal    `gorm:"column:sale_price;type:numeric(12,2)"`
	PurchaseCost  *decimal.Decimal    `gorm:"column:purchase_cost;type:numeric(12,2)"`
	AllocatedCost *decimal.Decimal    `gorm:"column:allocated_cost;type:numeric(12,2)"`
	Status        enums.ItemStatus    `gorm:"column:status;type:item_status;not null;default:'unlisted'"`
	ListedAt      *time.Time          `gorm:"column:listed_at;type:timestamptz"`
	SoldAt        *time.Time          `gorm:"column:sold_at;type:timestamptz"`
	SalesChannel  *enums.SalesChannel `gorm:"column:sales_channel;type:sales_channel"`
	PlatformFee   *decimal.Decimal    `gorm:"column:platform_fee;type:numeric(12,2)"`
	ShippingCost  *decimal.Decimal    `gorm:"column:shipping_cost;type:numeric(12,2)"`
	Photos        []ItemPhoto         `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
