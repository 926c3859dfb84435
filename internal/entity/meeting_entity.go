package entity

import (
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"
)

// Meeting rows are written by calendar ingestion and only read here.
type Meeting struct {
	Id            string
	Subject       string
	StartTime     time.Time
	EndTime       time.Time
	Location      string
	OrganizerName string
	Attendees     []string
}

func (m *Meeting) Interval() correlation.Interval {
	return correlation.Interval{ID: m.Id, Start: m.StartTime, End: m.EndTime}
}
