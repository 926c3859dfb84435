package model

import (
	"time"

	"github.com/google/uuid"
)

type SyncedFile struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OriginalFilename string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	LocalFilename    string    `gorm:"type:varchar(255);not null"`
	FilePath         string    `gorm:"type:text;not null"`
	FileSize         int64     `gorm:"not null"`
	SyncedAt         time.Time `gorm:"not null"`
}

func (SyncedFile) TableName() string {
	return "synced_files"
}
