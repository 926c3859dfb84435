package implementation

import (
	"context"
	"errors"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/mapper"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/contract"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QualityAssessmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QualityAssessmentMapper
}

func NewQualityAssessmentRepository(db *gorm.DB) contract.QualityAssessmentRepository {
	return &QualityAssessmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewQualityAssessmentMapper(),
	}
}

func (r *QualityAssessmentRepositoryImpl) Upsert(ctx context.Context, assessment *entity.QualityAssessment) error {
	if assessment.Id == uuid.Nil {
		assessment.Id = uuid.New()
	}
	m := r.mapper.ToModel(assessment)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recording_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quality", "assessment_method", "confidence", "reason", "assessed_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	stored, err := r.FindOne(ctx, specification.ByRecordingID{RecordingID: assessment.RecordingId})
	if err != nil {
		return err
	}
	if stored != nil {
		*assessment = *stored
	}
	return nil
}

func (r *QualityAssessmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QualityAssessment, error) {
	var m model.QualityAssessment
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QualityAssessmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QualityAssessment, error) {
	var models []*model.QualityAssessment
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
