package mapper

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.Transcript) *entity.Transcript {
	if t == nil {
		return nil
	}
	return &entity.Transcript{
		Id:          t.Id,
		RecordingId: t.RecordingId,
		FullText:    t.FullText,
		Summary:     t.Summary,
		WordCount:   t.WordCount,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

func (m *TranscriptMapper) ToModel(t *entity.Transcript) *model.Transcript {
	if t == nil {
		return nil
	}
	return &model.Transcript{
		Id:          t.Id,
		RecordingId: t.RecordingId,
		FullText:    t.FullText,
		Summary:     t.Summary,
		WordCount:   t.WordCount,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

func (m *TranscriptMapper) ToEntities(transcripts []*model.Transcript) []*entity.Transcript {
	entities := make([]*entity.Transcript, len(transcripts))
	for i, t := range transcripts {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
