package entity

import (
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"

	"github.com/google/uuid"
)

type Location string

const (
	LocationDeviceOnly Location = "device-only"
	LocationLocalOnly  Location = "local-only"
	LocationBoth       Location = "both"
	LocationDeleted    Location = "deleted"
)

// DeriveLocation is the only way a Location is produced.
func DeriveLocation(onDevice, onLocal bool) Location {
	switch {
	case onDevice && onLocal:
		return LocationBoth
	case onDevice:
		return LocationDeviceOnly
	case onLocal:
		return LocationLocalOnly
	default:
		return LocationDeleted
	}
}

const (
	TranscriptionNone       = "none"
	TranscriptionPending    = "pending"
	TranscriptionProcessing = "processing"
	TranscriptionComplete   = "complete"
	TranscriptionError      = "error"
)

type Recording struct {
	Id                    uuid.UUID
	Filename              string
	FilePath              *string
	FileSize              int64
	DurationSeconds       *float64
	DateRecorded          time.Time
	OnDevice              bool
	OnLocal               bool
	DeviceLastSeen        *time.Time
	Location              Location
	MeetingId             *string
	CorrelationConfidence *float64
	CorrelationMethod     *string
	StorageTier           *tiering.Tier
	TranscriptionStatus   string
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// SetPresence updates both presence flags and the derived location together.
func (r *Recording) SetPresence(onDevice, onLocal bool) {
	r.OnDevice = onDevice
	r.OnLocal = onLocal
	r.Location = DeriveLocation(onDevice, onLocal)
}

func (r *Recording) HasMeeting() bool {
	return r.MeetingId != nil && *r.MeetingId != ""
}

// Tier returns the stored tier, or the default when none has been assigned.
func (r *Recording) Tier() tiering.Tier {
	if r.StorageTier == nil {
		return tiering.DefaultTier
	}
	return *r.StorageTier
}

// TierUsage aggregates recordings per storage tier. Tier is nil for
// recordings that have never been tiered.
type TierUsage struct {
	Tier      *tiering.Tier
	Count     int64
	TotalSize int64
}
