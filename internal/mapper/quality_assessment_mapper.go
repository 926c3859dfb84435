package mapper

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
)

type QualityAssessmentMapper struct{}

func NewQualityAssessmentMapper() *QualityAssessmentMapper {
	return &QualityAssessmentMapper{}
}

func (m *QualityAssessmentMapper) ToEntity(q *model.QualityAssessment) *entity.QualityAssessment {
	if q == nil {
		return nil
	}
	return &entity.QualityAssessment{
		Id:               q.Id,
		RecordingId:      q.RecordingId,
		Quality:          quality.Level(q.Quality),
		AssessmentMethod: q.AssessmentMethod,
		Confidence:       q.Confidence,
		Reason:           q.Reason,
		AssessedAt:       q.AssessedAt.UTC(),
	}
}

func (m *QualityAssessmentMapper) ToModel(q *entity.QualityAssessment) *model.QualityAssessment {
	if q == nil {
		return nil
	}
	return &model.QualityAssessment{
		Id:               q.Id,
		RecordingId:      q.RecordingId,
		Quality:          string(q.Quality),
		AssessmentMethod: q.AssessmentMethod,
		Confidence:       q.Confidence,
		Reason:           q.Reason,
		AssessedAt:       q.AssessedAt.UTC(),
	}
}

func (m *QualityAssessmentMapper) ToEntities(assessments []*model.QualityAssessment) []*entity.QualityAssessment {
	entities := make([]*entity.QualityAssessment, len(assessments))
	for i, q := range assessments {
		entities[i] = m.ToEntity(q)
	}
	return entities
}
