package implementation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/mapper"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/contract"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CandidateMapper
}

func NewCandidateRepository(db *gorm.DB) contract.CandidateRepository {
	return &CandidateRepositoryImpl{
		db:     db,
		mapper: mapper.NewCandidateMapper(),
	}
}

// keepAIScoreFor stops a time-scored write from overwriting the score of a
// row an AI pass already selected.
func keepAIScoreFor(column string) string {
	return fmt.Sprintf(
		"CASE WHEN recording_meeting_candidates.is_ai_selected AND NOT excluded.is_ai_selected THEN recording_meeting_candidates.%s ELSE excluded.%s END",
		column, column,
	)
}

func (r *CandidateRepositoryImpl) Upsert(ctx context.Context, candidate *entity.RecordingMeetingCandidate) error {
	if candidate.Id == uuid.Nil {
		candidate.Id = uuid.New()
	}
	m := r.mapper.ToModel(candidate)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recording_id"}, {Name: "meeting_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "confidence_score"}, Value: gorm.Expr(keepAIScoreFor("confidence_score"))},
			{Column: clause.Column{Name: "match_reason"}, Value: gorm.Expr(keepAIScoreFor("match_reason"))},
			{Column: clause.Column{Name: "is_ai_selected"}, Value: gorm.Expr("recording_meeting_candidates.is_ai_selected OR excluded.is_ai_selected")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
		},
	}).Create(m).Error
	if err != nil {
		return err
	}

	stored, err := r.FindOne(ctx,
		specification.ByRecordingID{RecordingID: candidate.RecordingId},
		specification.CandidateForMeeting{MeetingID: candidate.MeetingId},
	)
	if err != nil {
		return err
	}
	if stored != nil {
		*candidate = *stored
	}
	return nil
}

func (r *CandidateRepositoryImpl) Update(ctx context.Context, candidate *entity.RecordingMeetingCandidate) error {
	m := r.mapper.ToModel(candidate)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*candidate = *r.mapper.ToEntity(m)
	return nil
}

func (r *CandidateRepositoryImpl) ClearSelections(ctx context.Context, recordingId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.RecordingMeetingCandidate{}).
		Where("recording_id = ?", recordingId).
		Updates(map[string]interface{}{
			"is_selected":       false,
			"is_user_confirmed": false,
		}).Error
}

func (r *CandidateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecordingMeetingCandidate, error) {
	var m model.RecordingMeetingCandidate
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CandidateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecordingMeetingCandidate, error) {
	var models []*model.RecordingMeetingCandidate
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CandidateRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.RecordingMeetingCandidate{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CandidateRepositoryImpl) FindDetails(ctx context.Context, recordingId uuid.UUID) ([]*entity.CandidateDetail, error) {
	var rows []*model.CandidateDetail
	err := r.db.WithContext(ctx).
		Table("recording_meeting_candidates AS c").
		Select("c.*, m.subject, m.start_time, m.end_time").
		Joins("JOIN meetings m ON m.id = c.meeting_id").
		Where("c.recording_id = ?", recordingId).
		Order("c.confidence_score DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToDetails(rows), nil
}
