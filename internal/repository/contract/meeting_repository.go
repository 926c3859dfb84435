package contract

import (
	"context"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
)

// MeetingRepository reads calendar rows. Create exists for the ingestion
// collaborator and for fixtures; the engine never writes meetings.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entity.Meeting) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Meeting, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meeting, error)
}
