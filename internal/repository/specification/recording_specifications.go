package specification

import (
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"

	"gorm.io/gorm"
)

type ByFilename struct {
	Filename string
}

func (s ByFilename) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("filename = ?", s.Filename)
}

type ByStorageTier struct {
	Tier string
}

func (s ByStorageTier) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("storage_tier = ?", s.Tier)
}

type Untiered struct{}

func (s Untiered) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("storage_tier IS NULL")
}

// RecordedBefore matches recordings strictly older than Cutoff.
type RecordedBefore struct {
	Cutoff time.Time
}

func (s RecordedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date_recorded < ?", s.Cutoff.UTC())
}

type OnLocal struct {
	Value bool
}

func (s OnLocal) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("on_local = ?", s.Value)
}

type OnDevice struct {
	Value bool
}

func (s OnDevice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("on_device = ?", s.Value)
}

type ByLocation struct {
	Location string
}

func (s ByLocation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("location = ?", s.Location)
}

// AutoLinkable matches recordings whose link may still be decided by time
// scoring: no user decision and no AI selection.
type AutoLinkable struct{}

func (s AutoLinkable) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(correlation_method IS NULL OR correlation_method IN ?)",
		[]string{correlation.MethodTimeOverlap, correlation.MethodTimeProximity})
}

type Unlinked struct{}

func (s Unlinked) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("meeting_id IS NULL")
}

type WithoutQualityAssessment struct{}

func (s WithoutQualityAssessment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM quality_assessments qa WHERE qa.recording_id = recordings.id)")
}
