package implementation

import (
	"context"
	"errors"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/mapper"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/contract"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"

	"gorm.io/gorm"
)

type RecordingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecordingMapper
}

func NewRecordingRepository(db *gorm.DB) contract.RecordingRepository {
	return &RecordingRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecordingMapper(),
	}
}

func (r *RecordingRepositoryImpl) Create(ctx context.Context, recording *entity.Recording) error {
	m := r.mapper.ToModel(recording)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*recording = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecordingRepositoryImpl) Update(ctx context.Context, recording *entity.Recording) error {
	m := r.mapper.ToModel(recording)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*recording = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecordingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recording, error) {
	var m model.Recording
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecordingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recording, error) {
	var models []*model.Recording
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RecordingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Recording{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type tierUsageRow struct {
	StorageTier *string
	Count       int64
	TotalSize   int64
}

func (r *RecordingRepositoryImpl) TierUsage(ctx context.Context) ([]entity.TierUsage, error) {
	var rows []tierUsageRow
	err := r.db.WithContext(ctx).
		Model(&model.Recording{}).
		Select("storage_tier, COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS total_size").
		Group("storage_tier").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	usage := make([]entity.TierUsage, len(rows))
	for i, row := range rows {
		usage[i] = entity.TierUsage{Count: row.Count, TotalSize: row.TotalSize}
		if row.StorageTier != nil {
			t := tiering.Tier(*row.StorageTier)
			usage[i].Tier = &t
		}
	}
	return usage, nil
}
