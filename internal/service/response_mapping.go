package service

import (
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
)

func toRecordingResponse(r *entity.Recording) dto.RecordingResponse {
	res := dto.RecordingResponse{
		Id:                    r.Id,
		Filename:              r.Filename,
		FilePath:              r.FilePath,
		FileSize:              r.FileSize,
		DurationSeconds:       r.DurationSeconds,
		DateRecorded:          r.DateRecorded,
		OnDevice:              r.OnDevice,
		OnLocal:               r.OnLocal,
		DeviceLastSeen:        r.DeviceLastSeen,
		Location:              string(entity.DeriveLocation(r.OnDevice, r.OnLocal)),
		MeetingId:             r.MeetingId,
		CorrelationConfidence: r.CorrelationConfidence,
		CorrelationMethod:     r.CorrelationMethod,
		TranscriptionStatus:   r.TranscriptionStatus,
	}
	if r.StorageTier != nil {
		tier := string(*r.StorageTier)
		res.StorageTier = &tier
	}
	return res
}

func toMeetingResponse(m *entity.Meeting) *dto.MeetingResponse {
	if m == nil {
		return nil
	}
	return &dto.MeetingResponse{
		Id:            m.Id,
		Subject:       m.Subject,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Location:      m.Location,
		OrganizerName: m.OrganizerName,
		Attendees:     m.Attendees,
	}
}

func toQueueItemResponse(i *entity.DownloadQueueItem) dto.DownloadQueueItemResponse {
	return dto.DownloadQueueItemResponse{
		Filename:     i.Filename,
		FileSize:     i.FileSize,
		Status:       string(i.Status),
		Progress:     i.Progress,
		Error:        i.Error,
		QueuedAt:     i.QueuedAt,
		StartedAt:    i.StartedAt,
		CompletedAt:  i.CompletedAt,
		DateRecorded: i.DateRecorded,
	}
}

func toSessionResponse(s *entity.SyncSession) *dto.SyncSessionResponse {
	if s == nil {
		return nil
	}
	return &dto.SyncSessionResponse{
		Id:          s.Id,
		Total:       s.Total,
		Completed:   s.Completed,
		Failed:      s.Failed,
		Status:      string(s.Status),
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
}

func toAssessmentResponse(a *entity.QualityAssessment) *dto.QualityAssessmentResponse {
	return &dto.QualityAssessmentResponse{
		Id:               a.Id,
		RecordingId:      a.RecordingId,
		Quality:          string(a.Quality),
		AssessmentMethod: a.AssessmentMethod,
		Confidence:       a.Confidence,
		Reason:           a.Reason,
		AssessedAt:       a.AssessedAt,
	}
}
