package specification

import "gorm.io/gorm"

type CandidateForMeeting struct {
	MeetingID string
}

func (s CandidateForMeeting) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("meeting_id = ?", s.MeetingID)
}

type SelectedCandidate struct{}

func (s SelectedCandidate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_selected = ?", true)
}
