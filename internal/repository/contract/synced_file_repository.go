package contract

import (
	"context"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
)

type SyncedFileRepository interface {
	// Upsert inserts a ledger row or refreshes the one with the same
	// original filename.
	Upsert(ctx context.Context, file *entity.SyncedFile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncedFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncedFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
