package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Pallet represents a bulk acquisition whose cost is shared across items.
type Pallet struct {
	ID                        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                    uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Name                      string             `gorm:"column:name;not null"`
	Supplier                  *string            `gorm:"column:supplier"`
	PurchaseCost              decimal.Decimal    `gorm:"column:purchase_cost;type:numeric(12,2);not null"`
	SalesTax                  *decimal.Decimal   `gorm:"column:sales_tax;type:numeric(12,2)"`
	PurchaseDate              time.Time          `gorm:"column:purchase_date;type:date;not null"`
	Status                    enums.PalletStatus `gorm:"column:status;type:pallet_status;not null;default:'unprocessed'"`
	CompletionPromptDismissed bool               `gorm:"column:completion_prompt_dismissed;not null;default:false"`
	Version                   int                `gorm:"column:version;not null;default:1"`
	Items                     []Item             `gorm:"foreignKey:PalletID;constraint:OnDelete:CASCADE"`
	CreatedAt                 time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                 time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalCost is the purchase cost plus sales tax when present.
func (p Pallet) TotalCost() decimal.Decimal {
	if p.SalesTax == nil {
		return p.PurchaseCost
	}
	return p.PurchaseCost.Add(*p.SalesTax)
}
