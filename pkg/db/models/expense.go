package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/palletbase/palletbase-backend/pkg/enums"
)

// Expense is a business cost outside item acquisition, optionally linked to
// one or more pallets.
type Expense struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	Category    enums.ExpenseCategory `gorm:"column:category;type:expense_category;not null"`
	Description *string               `gorm:"column:description"`
	ExpenseDate time.Time             `gorm:"column:expense_date;type:date;not null"`
	Pallets     []Pallet              `gorm:"many2many:expense_pallet_links;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
