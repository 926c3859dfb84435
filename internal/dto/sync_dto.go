package dto

import (
	"time"

	"github.com/google/uuid"
)

type DeviceFileRequest struct {
	Filename        string     `json:"filename" validate:"required"`
	Size            int64      `json:"size" validate:"gte=0"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
	DateRecorded    *time.Time `json:"date_recorded,omitempty"`
}

type QueueDownloadsRequest struct {
	Files []DeviceFileRequest `json:"files" validate:"required,dive"`
}

type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type QueueDownloadsResponse struct {
	Queued  []string      `json:"queued"`
	Skipped []SkippedFile `json:"skipped"`
}

type StartSyncSessionResponse struct {
	QueueDownloadsResponse
	Session SyncSessionResponse `json:"session"`
}

type SyncCheckResponse struct {
	Synced bool   `json:"synced"`
	Reason string `json:"reason"`
}

type DownloadQueueItemResponse struct {
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"file_size"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	Error        *string    `json:"error"`
	QueuedAt     time.Time  `json:"queued_at"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	DateRecorded *time.Time `json:"date_recorded"`
}

type SyncSessionResponse struct {
	Id          uuid.UUID  `json:"id"`
	Total       int        `json:"total"`
	Completed   int        `json:"completed"`
	Failed      int        `json:"failed"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// DownloadQueueState is the full snapshot broadcast after every queue change.
type DownloadQueueState struct {
	Items   []DownloadQueueItemResponse `json:"items"`
	Session *SyncSessionResponse        `json:"session"`
	Paused  bool                        `json:"paused"`
}

type SyncStatsResponse struct {
	Pending     int                  `json:"pending"`
	Downloading int                  `json:"downloading"`
	Completed   int                  `json:"completed"`
	Failed      int                  `json:"failed"`
	Total       int                  `json:"total"`
	SyncedFiles int64                `json:"synced_files"`
	Session     *SyncSessionResponse `json:"session"`
}

type ProcessDownloadResponse struct {
	Filename    string    `json:"filename"`
	RecordingId uuid.UUID `json:"recording_id"`
	FilePath    string    `json:"file_path"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
}

type UpdateProgressRequest struct {
	BytesReceived int64 `json:"bytes_received" validate:"gte=0"`
}

type MarkFailedRequest struct {
	Error string `json:"error" validate:"required"`
}

type ClearCompletedResponse struct {
	Cleared int `json:"cleared"`
}

type CancelAllResponse struct {
	Cancelled int `json:"cancelled"`
}

type ReconcileDeviceListingResponse struct {
	Created           int `json:"created"`
	Updated           int `json:"updated"`
	MissingFromDevice int `json:"missing_from_device"`
}

type ResetSyncStateResponse struct {
	RecordingsReset int `json:"recordings_reset"`
	QueueItemsReset int `json:"queue_items_reset"`
}
