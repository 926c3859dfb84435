package mapper

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
)

type SyncedFileMapper struct{}

func NewSyncedFileMapper() *SyncedFileMapper {
	return &SyncedFileMapper{}
}

func (m *SyncedFileMapper) ToEntity(s *model.SyncedFile) *entity.SyncedFile {
	if s == nil {
		return nil
	}
	return &entity.SyncedFile{
		Id:               s.Id,
		OriginalFilename: s.OriginalFilename,
		LocalFilename:    s.LocalFilename,
		FilePath:         s.FilePath,
		FileSize:         s.FileSize,
		SyncedAt:         s.SyncedAt.UTC(),
	}
}

func (m *SyncedFileMapper) ToModel(s *entity.SyncedFile) *model.SyncedFile {
	if s == nil {
		return nil
	}
	return &model.SyncedFile{
		Id:               s.Id,
		OriginalFilename: s.OriginalFilename,
		LocalFilename:    s.LocalFilename,
		FilePath:         s.FilePath,
		FileSize:         s.FileSize,
		SyncedAt:         s.SyncedAt.UTC(),
	}
}

func (m *SyncedFileMapper) ToEntities(files []*model.SyncedFile) []*entity.SyncedFile {
	entities := make([]*entity.SyncedFile, len(files))
	for i, s := range files {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
