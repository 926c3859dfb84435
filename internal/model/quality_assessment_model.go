package model

import (
	"time"

	"github.com/google/uuid"
)

type QualityAssessment struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordingId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Quality          string    `gorm:"type:varchar(8);not null;index"`
	AssessmentMethod string    `gorm:"type:varchar(8);not null"`
	Confidence       float64   `gorm:"type:double precision;not null"`
	Reason           string    `gorm:"type:text"`
	AssessedAt       time.Time `gorm:"not null"`
}

func (QualityAssessment) TableName() string {
	return "quality_assessments"
}
