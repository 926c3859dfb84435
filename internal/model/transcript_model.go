package model

import (
	"time"

	"github.com/google/uuid"
)

type Transcript struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordingId uuid.UUID `gorm:"type:uuid;not null;index"`
	FullText    string    `gorm:"type:text"`
	Summary     *string   `gorm:"type:text"`
	WordCount   int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Transcript) TableName() string {
	return "transcripts"
}
