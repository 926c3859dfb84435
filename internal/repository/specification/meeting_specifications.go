package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByMeetingID struct {
	ID string
}

func (s ByMeetingID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type ByMeetingIDs struct {
	IDs []string
}

func (s ByMeetingIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// MeetingOverlapsWindow matches meetings that span the window, start inside
// it, or end inside it. The three conditions are kept separate and OR'd.
type MeetingOverlapsWindow struct {
	Start time.Time
	End   time.Time
}

func (s MeetingOverlapsWindow) Apply(db *gorm.DB) *gorm.DB {
	start, end := s.Start.UTC(), s.End.UTC()
	return db.Where(
		"((start_time <= ? AND end_time >= ?) OR (start_time >= ? AND start_time <= ?) OR (end_time >= ? AND end_time <= ?))",
		start, end,
		start, end,
		start, end,
	)
}
