package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemPhoto is a stored photo attached to an item. ArchivedAt is stamped when
// the owning item sells; archived photos are what the retention policy prunes.
type ItemPhoto struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID      uuid.UUID  `gorm:"column:item_id;type:uuid;not null"`
	StoragePath string     `gorm:"column:storage_path;not null"`
	Position    int        `gorm:"column:position;not null;default:0"`
	ArchivedAt  *time.Time `gorm:"column:archived_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
