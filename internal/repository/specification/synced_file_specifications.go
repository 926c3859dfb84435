package specification

import "gorm.io/gorm"

type ByOriginalFilename struct {
	Filename string
}

func (s ByOriginalFilename) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("original_filename = ?", s.Filename)
}

type ByOriginalFilenames struct {
	Filenames []string
}

func (s ByOriginalFilenames) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("original_filename IN ?", s.Filenames)
}
