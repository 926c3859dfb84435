package contract

import (
	"context"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"

	"github.com/google/uuid"
)

type CandidateRepository interface {
	// Upsert writes score fields for the (recording, meeting) pair. Selection
	// flags of an existing row are left alone.
	Upsert(ctx context.Context, candidate *entity.RecordingMeetingCandidate) error
	Update(ctx context.Context, candidate *entity.RecordingMeetingCandidate) error
	ClearSelections(ctx context.Context, recordingId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecordingMeetingCandidate, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecordingMeetingCandidate, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindDetails(ctx context.Context, recordingId uuid.UUID) ([]*entity.CandidateDetail, error)
}
