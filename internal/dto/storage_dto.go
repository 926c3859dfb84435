package dto

import (
	"time"

	"github.com/google/uuid"
)

type AssignTierRequest struct {
	Quality string `json:"quality" validate:"required,oneof=high medium low"`
}

type TierAssignmentResponse struct {
	RecordingId  uuid.UUID `json:"recording_id"`
	Tier         string    `json:"tier"`
	PreviousTier *string   `json:"previous_tier"`
}

// RetentionOverrides replaces the configured retention for one call. Zero
// fields keep the configured value.
type RetentionOverrides struct {
	HotDays     int `query:"hot_days" validate:"gte=0"`
	WarmDays    int `query:"warm_days" validate:"gte=0"`
	ColdDays    int `query:"cold_days" validate:"gte=0"`
	ArchiveDays int `query:"archive_days" validate:"gte=0"`
}

type CleanupSuggestionResponse struct {
	RecordingId   uuid.UUID `json:"recording_id"`
	Filename      string    `json:"filename"`
	Tier          string    `json:"tier"`
	Quality       *string   `json:"quality"`
	DateRecorded  time.Time `json:"date_recorded"`
	AgeInDays     int       `json:"age_in_days"`
	RetentionDays int       `json:"retention_days"`
	FileSize      int64     `json:"file_size"`
	OnLocal       bool      `json:"on_local"`
	HasTranscript bool      `json:"has_transcript"`
	HasMeeting    bool      `json:"has_meeting"`
	Reason        string    `json:"reason"`
}

type ExecuteCleanupRequest struct {
	RecordingIds []uuid.UUID `json:"recording_ids" validate:"required,min=1"`
	Archive      bool        `json:"archive"`
}

type ExecuteCleanupResponse struct {
	Deleted  []uuid.UUID    `json:"deleted"`
	Archived []uuid.UUID    `json:"archived"`
	Failed   []BatchFailure `json:"failed"`
}

type TierStats struct {
	Tier      string `json:"tier"`
	Count     int64  `json:"count"`
	TotalSize int64  `json:"total_size"`
}

type StorageStatsResponse struct {
	Tiers           []TierStats `json:"tiers"`
	Untiered        TierStats   `json:"untiered"`
	TotalRecordings int64       `json:"total_recordings"`
	TotalSize       int64       `json:"total_size"`
}

type InitializeUntieredResponse struct {
	Initialized int            `json:"initialized"`
	ByTier      map[string]int `json:"by_tier"`
}
