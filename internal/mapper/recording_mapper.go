package mapper

import (
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"
)

type RecordingMapper struct{}

func NewRecordingMapper() *RecordingMapper {
	return &RecordingMapper{}
}

func (m *RecordingMapper) ToEntity(r *model.Recording) *entity.Recording {
	if r == nil {
		return nil
	}

	var tier *tiering.Tier
	if r.StorageTier != nil {
		t := tiering.Tier(*r.StorageTier)
		tier = &t
	}

	return &entity.Recording{
		Id:                    r.Id,
		Filename:              r.Filename,
		FilePath:              r.FilePath,
		FileSize:              r.FileSize,
		DurationSeconds:       r.DurationSeconds,
		DateRecorded:          r.DateRecorded.UTC(),
		OnDevice:              r.OnDevice,
		OnLocal:               r.OnLocal,
		DeviceLastSeen:        utcPtr(r.DeviceLastSeen),
		Location:              entity.Location(r.Location),
		MeetingId:             r.MeetingId,
		CorrelationConfidence: r.CorrelationConfidence,
		CorrelationMethod:     r.CorrelationMethod,
		StorageTier:           tier,
		TranscriptionStatus:   r.TranscriptionStatus,
		CreatedAt:             r.CreatedAt.UTC(),
		UpdatedAt:             nonZero(r.UpdatedAt),
	}
}

// ToModel recomputes location from the presence flags so the stored column
// can never disagree with them.
func (m *RecordingMapper) ToModel(r *entity.Recording) *model.Recording {
	if r == nil {
		return nil
	}

	var tier *string
	if r.StorageTier != nil {
		t := string(*r.StorageTier)
		tier = &t
	}

	status := r.TranscriptionStatus
	if status == "" {
		status = entity.TranscriptionNone
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Recording{
		Id:                    r.Id,
		Filename:              r.Filename,
		FilePath:              r.FilePath,
		FileSize:              r.FileSize,
		DurationSeconds:       r.DurationSeconds,
		DateRecorded:          r.DateRecorded.UTC(),
		OnDevice:              r.OnDevice,
		OnLocal:               r.OnLocal,
		DeviceLastSeen:        utcPtr(r.DeviceLastSeen),
		Location:              string(entity.DeriveLocation(r.OnDevice, r.OnLocal)),
		MeetingId:             r.MeetingId,
		CorrelationConfidence: r.CorrelationConfidence,
		CorrelationMethod:     r.CorrelationMethod,
		StorageTier:           tier,
		TranscriptionStatus:   status,
		CreatedAt:             r.CreatedAt.UTC(),
		UpdatedAt:             updatedAt,
	}
}

func (m *RecordingMapper) ToEntities(recordings []*model.Recording) []*entity.Recording {
	entities := make([]*entity.Recording, len(recordings))
	for i, r := range recordings {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
