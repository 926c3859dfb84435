package entity

import (
	"time"

	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueStatusPending     QueueStatus = "pending"
	QueueStatusDownloading QueueStatus = "downloading"
	QueueStatusCompleted   QueueStatus = "completed"
	QueueStatusFailed      QueueStatus = "failed"
)

// DownloadQueueItem lives in memory only and is keyed by device filename.
type DownloadQueueItem struct {
	Filename        string
	FileSize        int64
	DurationSeconds *float64
	DateRecorded    *time.Time
	Status          QueueStatus
	Progress        int
	Error           *string
	QueuedAt        time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

func (i *DownloadQueueItem) IsActive() bool {
	return i.Status == QueueStatusPending || i.Status == QueueStatusDownloading
}

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionFailed    SessionStatus = "failed"
)

type SyncSession struct {
	Id          uuid.UUID
	Total       int
	Completed   int
	Failed      int
	Status      SessionStatus
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Finish marks the session completed once every planned item has an outcome.
// It reports whether the status changed.
func (s *SyncSession) Finish(now time.Time) bool {
	if s.Status != SessionActive || s.Completed+s.Failed < s.Total {
		return false
	}
	s.Status = SessionCompleted
	s.CompletedAt = &now
	return true
}

// DeviceFile is one entry of a device listing.
type DeviceFile struct {
	Filename        string
	Size            int64
	DurationSeconds *float64
	DateRecorded    *time.Time
}
