package entity

import (
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"

	"github.com/google/uuid"
)

type QualityAssessment struct {
	Id               uuid.UUID
	RecordingId      uuid.UUID
	Quality          quality.Level
	AssessmentMethod string
	Confidence       float64
	Reason           string
	AssessedAt       time.Time
}

func (q *QualityAssessment) IsManual() bool {
	return q.AssessmentMethod == quality.MethodManual
}
