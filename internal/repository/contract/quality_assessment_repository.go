package contract

import (
	"context"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
)

type QualityAssessmentRepository interface {
	// Upsert keeps one assessment per recording.
	Upsert(ctx context.Context, assessment *entity.QualityAssessment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QualityAssessment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QualityAssessment, error)
}
