package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeQualityAssessed         = "quality:assessed"
	TypeStorageTierAssigned     = "storage:tier-assigned"
	TypeStorageCleanupSuggested = "storage:cleanup-suggested"
)

// DomainTypes lists every event type emitted by the engine.
var DomainTypes = []string{
	TypeQualityAssessed,
	TypeStorageTierAssigned,
	TypeStorageCleanupSuggested,
}

// QualityAssessed is emitted after a quality assessment is written.
type QualityAssessed struct {
	RecordingId      uuid.UUID
	Quality          string
	AssessmentMethod string
	Confidence       float64
	Reason           string
	OccurredAt       time.Time
}

func (e QualityAssessed) EventType() string    { return TypeQualityAssessed }
func (e QualityAssessed) Timestamp() time.Time { return e.OccurredAt }

func (e QualityAssessed) Payload() map[string]interface{} {
	return map[string]interface{}{
		"recording_id":      e.RecordingId.String(),
		"quality":           e.Quality,
		"assessment_method": e.AssessmentMethod,
		"confidence":        e.Confidence,
		"reason":            e.Reason,
		"occurred_at":       e.OccurredAt,
	}
}

// TierAssigned is emitted whenever a recording's storage tier is written.
type TierAssigned struct {
	RecordingId  uuid.UUID
	Tier         string
	PreviousTier *string
	Reason       string
	OccurredAt   time.Time
}

func (e TierAssigned) EventType() string    { return TypeStorageTierAssigned }
func (e TierAssigned) Timestamp() time.Time { return e.OccurredAt }

func (e TierAssigned) Payload() map[string]interface{} {
	data := map[string]interface{}{
		"recording_id": e.RecordingId.String(),
		"tier":         e.Tier,
		"reason":       e.Reason,
		"occurred_at":  e.OccurredAt,
	}
	if e.PreviousTier != nil {
		data["previous_tier"] = *e.PreviousTier
	}
	return data
}

// CleanupSuggested is emitted after a cleanup batch as an audit record.
type CleanupSuggested struct {
	RecordingIds []uuid.UUID
	Tier         string
	Reason       string
	OccurredAt   time.Time
}

func (e CleanupSuggested) EventType() string    { return TypeStorageCleanupSuggested }
func (e CleanupSuggested) Timestamp() time.Time { return e.OccurredAt }

func (e CleanupSuggested) Payload() map[string]interface{} {
	ids := make([]string, len(e.RecordingIds))
	for i, id := range e.RecordingIds {
		ids[i] = id.String()
	}
	return map[string]interface{}{
		"recording_ids": ids,
		"tier":          e.Tier,
		"reason":        e.Reason,
		"occurred_at":   e.OccurredAt,
	}
}
