package entity

import (
	"time"

	"github.com/google/uuid"
)

type RecordingMeetingCandidate struct {
	Id              uuid.UUID
	RecordingId     uuid.UUID
	MeetingId       string
	ConfidenceScore float64
	MatchReason     string
	IsSelected      bool
	IsAiSelected    bool
	IsUserConfirmed bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// CandidateDetail is a candidate joined with its meeting.
type CandidateDetail struct {
	RecordingMeetingCandidate
	Subject   string
	StartTime time.Time
	EndTime   time.Time
}
