package specification

import "gorm.io/gorm"

type ByQuality struct {
	Quality string
}

func (s ByQuality) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("quality = ?", s.Quality)
}

type ByAssessmentMethod struct {
	Method string
}

func (s ByAssessmentMethod) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("assessment_method = ?", s.Method)
}
