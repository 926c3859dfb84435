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

type SyncedFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SyncedFileMapper
}

func NewSyncedFileRepository(db *gorm.DB) contract.SyncedFileRepository {
	return &SyncedFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewSyncedFileMapper(),
	}
}

func (r *SyncedFileRepositoryImpl) Upsert(ctx context.Context, file *entity.SyncedFile) error {
	if file.Id == uuid.Nil {
		file.Id = uuid.New()
	}
	m := r.mapper.ToModel(file)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "original_filename"}},
		DoUpdates: clause.AssignmentColumns([]string{"local_filename", "file_path", "file_size", "synced_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	stored, err := r.FindOne(ctx, specification.ByOriginalFilename{Filename: file.OriginalFilename})
	if err != nil {
		return err
	}
	if stored != nil {
		*file = *stored
	}
	return nil
}

func (r *SyncedFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncedFile, error) {
	var m model.SyncedFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SyncedFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncedFile, error) {
	var models []*model.SyncedFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SyncedFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.SyncedFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
