package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/vaporlab/vaporlab-backend/pkg/db/types"
)

// BannerWeek is the singleton weekly promotional schedule. At most one
// row exists; it is created lazily on first write.
type BannerWeek struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Days      dbtypes.BannerDays `gorm:"column:days;type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
