package model

import (
	"time"

	"github.com/google/uuid"
)

type RecordingMeetingCandidate struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordingId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_recording_meeting"`
	MeetingId       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_candidate_recording_meeting"`
	ConfidenceScore float64   `gorm:"type:double precision;not null"`
	MatchReason     string    `gorm:"type:varchar(64)"`
	IsSelected      bool      `gorm:"not null"`
	IsAiSelected    bool      `gorm:"not null"`
	IsUserConfirmed bool      `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (RecordingMeetingCandidate) TableName() string {
	return "recording_meeting_candidates"
}

// CandidateDetail is the row shape of a candidate joined with its meeting.
type CandidateDetail struct {
	RecordingMeetingCandidate
	Subject   string
	StartTime time.Time
	EndTime   time.Time
}
