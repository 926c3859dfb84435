package dto

import (
	"time"

	"github.com/google/uuid"
)

type RecordingResponse struct {
	Id                    uuid.UUID  `json:"id"`
	Filename              string     `json:"filename"`
	FilePath              *string    `json:"file_path"`
	FileSize              int64      `json:"file_size"`
	DurationSeconds       *float64   `json:"duration_seconds"`
	DateRecorded          time.Time  `json:"date_recorded"`
	OnDevice              bool       `json:"on_device"`
	OnLocal               bool       `json:"on_local"`
	DeviceLastSeen        *time.Time `json:"device_last_seen"`
	Location              string     `json:"location"`
	MeetingId             *string    `json:"meeting_id"`
	CorrelationConfidence *float64   `json:"correlation_confidence"`
	CorrelationMethod     *string    `json:"correlation_method"`
	StorageTier           *string    `json:"storage_tier"`
	TranscriptionStatus   string     `json:"transcription_status"`
}

type MeetingResponse struct {
	Id            string    `json:"id"`
	Subject       string    `json:"subject"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Location      string    `json:"location"`
	OrganizerName string    `json:"organizer_name"`
	Attendees     []string  `json:"attendees"`
}

// BatchFailure reports one item a batch operation could not process.
type BatchFailure struct {
	Id     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}
