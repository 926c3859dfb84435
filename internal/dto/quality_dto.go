package dto

import (
	"time"

	"github.com/google/uuid"
)

type AssessQualityRequest struct {
	RecordingId uuid.UUID `json:"recording_id" validate:"required"`
	Quality     string    `json:"quality" validate:"required,oneof=high medium low"`
	Reason      string    `json:"reason"`
}

type AutoAssessRequest struct {
	OverrideManual bool `json:"override_manual"`
}

type BatchAutoAssessRequest struct {
	RecordingIds   []uuid.UUID `json:"recording_ids" validate:"required,min=1"`
	OverrideManual bool        `json:"override_manual"`
}

type QualityAssessmentResponse struct {
	Id               uuid.UUID `json:"id"`
	RecordingId      uuid.UUID `json:"recording_id"`
	Quality          string    `json:"quality"`
	AssessmentMethod string    `json:"assessment_method"`
	Confidence       float64   `json:"confidence"`
	Reason           string    `json:"reason"`
	AssessedAt       time.Time `json:"assessed_at"`
}

type BatchAssessResponse struct {
	Assessed []uuid.UUID    `json:"assessed"`
	Skipped  []uuid.UUID    `json:"skipped"`
	Failed   []BatchFailure `json:"failed"`
}

type QualityInferenceResponse struct {
	RecordingId uuid.UUID `json:"recording_id"`
	Quality     string    `json:"quality"`
	Score       int       `json:"score"`
	Confidence  float64   `json:"confidence"`
	Reasons     []string  `json:"reasons"`
}
