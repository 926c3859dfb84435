package contract

import (
	"context"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
)

type RecordingRepository interface {
	Create(ctx context.Context, recording *entity.Recording) error
	Update(ctx context.Context, recording *entity.Recording) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recording, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recording, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	TierUsage(ctx context.Context) ([]entity.TierUsage, error)
}
