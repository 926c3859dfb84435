package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddCandidateRequest struct {
	RecordingId     uuid.UUID `json:"recording_id" validate:"required"`
	MeetingId       string    `json:"meeting_id" validate:"required"`
	ConfidenceScore float64   `json:"confidence_score" validate:"gte=0,lte=1"`
	MatchReason     string    `json:"match_reason"`
	IsAiSelected    bool      `json:"is_ai_selected"`
}

type CandidateResponse struct {
	Id              uuid.UUID  `json:"id"`
	RecordingId     uuid.UUID  `json:"recording_id"`
	MeetingId       string     `json:"meeting_id"`
	ConfidenceScore float64    `json:"confidence_score"`
	MatchReason     string     `json:"match_reason"`
	IsSelected      bool       `json:"is_selected"`
	IsAiSelected    bool       `json:"is_ai_selected"`
	IsUserConfirmed bool       `json:"is_user_confirmed"`
	Subject         string     `json:"subject,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
}

// SelectMeetingRequest carries the user's choice. A null meeting_id marks the
// recording as standalone.
type SelectMeetingRequest struct {
	MeetingId *string `json:"meeting_id"`
}

type RecordingMatchInfoResponse struct {
	Recording      RecordingResponse `json:"recording"`
	Meeting        *MeetingResponse  `json:"meeting"`
	DurationMatch  string            `json:"duration_match"`
	CandidateCount int               `json:"candidate_count"`
	HasConflicts   bool              `json:"has_conflicts"`
}

type ScoredMeeting struct {
	MeetingId  string  `json:"meeting_id"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

type CorrelationResultResponse struct {
	RecordingId uuid.UUID       `json:"recording_id"`
	Candidates  []ScoredMeeting `json:"candidates"`
	Best        *ScoredMeeting  `json:"best"`
	Linked      bool            `json:"linked"`
	// Kept is set when an existing user or AI link blocked automatic linking.
	Kept bool `json:"kept"`
}

type CorrelateUnlinkedResponse struct {
	Processed int            `json:"processed"`
	Linked    int            `json:"linked"`
	Failed    []BatchFailure `json:"failed"`
}
