package model

import (
	"time"

	"github.com/google/uuid"
)

type Recording struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename              string    `gorm:"type:varchar(255);not null;index"`
	FilePath              *string   `gorm:"type:text"`
	FileSize              int64     `gorm:"not null"`
	DurationSeconds       *float64  `gorm:"type:double precision"`
	DateRecorded          time.Time `gorm:"not null;index"`
	OnDevice              bool      `gorm:"not null"`
	OnLocal               bool      `gorm:"not null"`
	DeviceLastSeen        *time.Time
	Location              string    `gorm:"type:varchar(16);not null;index"`
	MeetingId             *string   `gorm:"type:varchar(255);index"`
	CorrelationConfidence *float64  `gorm:"type:double precision"`
	CorrelationMethod     *string   `gorm:"type:varchar(32)"`
	StorageTier           *string   `gorm:"type:varchar(16);index"`
	TranscriptionStatus   string    `gorm:"type:varchar(16);not null"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (Recording) TableName() string {
	return "recordings"
}
