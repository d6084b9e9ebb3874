package models

import (
	"time"

	"github.com/google/uuid"
)

// Survey is a storefront poll shown to shoppers.
type Survey struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Question  string         `gorm:"column:question;not null"`
	IsActive  bool           `gorm:"column:is_active;not null;default:false"`
	Options   []SurveyOption `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// SurveyOption is one votable answer of a survey.
type SurveyOption struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SurveyID uuid.UUID `gorm:"column:survey_id;type:uuid;not null"`
	Label    string    `gorm:"column:label;not null"`
	Votes    int       `gorm:"column:votes;not null;default:0"`
}
