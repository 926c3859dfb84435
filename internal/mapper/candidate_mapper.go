package mapper

import (
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
)

type CandidateMapper struct{}

func NewCandidateMapper() *CandidateMapper {
	return &CandidateMapper{}
}

func (m *CandidateMapper) ToEntity(c *model.RecordingMeetingCandidate) *entity.RecordingMeetingCandidate {
	if c == nil {
		return nil
	}
	return &entity.RecordingMeetingCandidate{
		Id:              c.Id,
		RecordingId:     c.RecordingId,
		MeetingId:       c.MeetingId,
		ConfidenceScore: c.ConfidenceScore,
		MatchReason:     c.MatchReason,
		IsSelected:      c.IsSelected,
		IsAiSelected:    c.IsAiSelected,
		IsUserConfirmed: c.IsUserConfirmed,
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       nonZero(c.UpdatedAt),
	}
}

func (m *CandidateMapper) ToModel(c *entity.RecordingMeetingCandidate) *model.RecordingMeetingCandidate {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.RecordingMeetingCandidate{
		Id:              c.Id,
		RecordingId:     c.RecordingId,
		MeetingId:       c.MeetingId,
		ConfidenceScore: c.ConfidenceScore,
		MatchReason:     c.MatchReason,
		IsSelected:      c.IsSelected,
		IsAiSelected:    c.IsAiSelected,
		IsUserConfirmed: c.IsUserConfirmed,
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       updatedAt,
	}
}

func (m *CandidateMapper) ToEntities(candidates []*model.RecordingMeetingCandidate) []*entity.RecordingMeetingCandidate {
	entities := make([]*entity.RecordingMeetingCandidate, len(candidates))
	for i, c := range candidates {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CandidateMapper) ToDetails(rows []*model.CandidateDetail) []*entity.CandidateDetail {
	details := make([]*entity.CandidateDetail, len(rows))
	for i, row := range rows {
		details[i] = &entity.CandidateDetail{
			RecordingMeetingCandidate: *m.ToEntity(&row.RecordingMeetingCandidate),
			Subject:                   row.Subject,
			StartTime:                 row.StartTime.UTC(),
			EndTime:                   row.EndTime.UTC(),
		}
	}
	return details
}
