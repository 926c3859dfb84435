package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/contract"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"

	"github.com/google/uuid"
)

const moduleCorrelation = "CORRELATION"

// UserDecisionConfidence is stored on a recording whenever the user picks
// (or rejects) its meeting.
const UserDecisionConfidence = 1.0

type ICorrelationService interface {
	CorrelateRecording(ctx context.Context, recordingId uuid.UUID) (*dto.CorrelationResultResponse, error)
	CorrelateUnlinked(ctx context.Context) (*dto.CorrelateUnlinkedResponse, error)
	AddRecordingMeetingCandidate(ctx context.Context, req *dto.AddCandidateRequest) (*dto.CandidateResponse, error)
	SelectMeetingForRecording(ctx context.Context, recordingId uuid.UUID, meetingId string) (*dto.RecordingResponse, error)
	SelectMeetingForRecordingByUser(ctx context.Context, recordingId uuid.UUID, req *dto.SelectMeetingRequest) (*dto.RecordingResponse, error)
	GetCandidates(ctx context.Context, recordingId uuid.UUID) ([]dto.CandidateResponse, error)
	GetRecordingMatchInfo(ctx context.Context, recordingId uuid.UUID) (*dto.RecordingMatchInfoResponse, error)
}

type correlationService struct {
	uowFactory unitofwork.RepositoryFactory
	config     correlation.Config
	logger     logger.ILogger
	now        func() time.Time
}

func NewCorrelationService(
	uowFactory unitofwork.RepositoryFactory,
	config correlation.Config,
	log logger.ILogger,
) ICorrelationService {
	return &correlationService{
		uowFactory: uowFactory,
		config:     config,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CorrelateRecording scores every meeting near the recording, stores each
// scored meeting as a candidate and links the best one when it clears the
// threshold. User decisions and AI selections are left in place.
func (s *correlationService) CorrelateRecording(ctx context.Context, recordingId uuid.UUID) (*dto.CorrelationResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	window := s.config.SearchWindow(recording.DateRecorded, recording.DurationSeconds)
	meetings, err := uow.MeetingRepository().FindAll(ctx,
		specification.MeetingOverlapsWindow{Start: window.Start, End: window.End},
		specification.OrderBy{Field: "start_time"},
	)
	if err != nil {
		return nil, err
	}

	intervals := make([]correlation.Interval, len(meetings))
	for i, m := range meetings {
		intervals[i] = m.Interval()
	}
	scores, best := s.config.ScoreAll(recording.DateRecorded, intervals)

	res := &dto.CorrelationResultResponse{
		RecordingId: recordingId,
		Candidates:  make([]dto.ScoredMeeting, 0, len(scores)),
	}

	candidates := uow.CandidateRepository()
	now := s.now()
	for _, score := range scores {
		res.Candidates = append(res.Candidates, toScoredMeeting(score))
		err := candidates.Upsert(ctx, &entity.RecordingMeetingCandidate{
			RecordingId:     recordingId,
			MeetingId:       score.MeetingID,
			ConfidenceScore: score.Confidence,
			MatchReason:     score.Method,
			CreatedAt:       now,
			UpdatedAt:       &now,
		})
		if err != nil {
			return nil, fmt.Errorf("store candidate %s: %w", score.MeetingID, err)
		}
	}

	if best != nil {
		b := toScoredMeeting(*best)
		res.Best = &b
	}

	if s.config.ShouldLink(best) {
		if correlation.IsAutomaticallyReplaceable(recording.CorrelationMethod) {
			confidence := best.Confidence
			method := best.Method
			if err := s.selectCandidate(ctx, uow, recording, best.MeetingID, confidence, method, false); err != nil {
				return nil, err
			}
			res.Linked = true
		} else {
			res.Kept = true
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Debug(moduleCorrelation, "Recording correlated", map[string]interface{}{
		"recording_id": recordingId,
		"candidates":   len(scores),
		"linked":       res.Linked,
	})
	return res, nil
}

func toScoredMeeting(s correlation.Score) dto.ScoredMeeting {
	return dto.ScoredMeeting{MeetingId: s.MeetingID, Confidence: s.Confidence, Method: s.Method}
}

// selectCandidate makes meetingId the recording's only selected candidate and
// links the recording to it. The candidate row must already exist.
func (s *correlationService) selectCandidate(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	recording *entity.Recording,
	meetingId string,
	confidence float64,
	method string,
	userConfirmed bool,
) error {
	candidates := uow.CandidateRepository()
	if err := candidates.ClearSelections(ctx, recording.Id); err != nil {
		return err
	}

	candidate, err := candidates.FindOne(ctx,
		specification.ByRecordingID{RecordingID: recording.Id},
		specification.CandidateForMeeting{MeetingID: meetingId},
	)
	if err != nil {
		return err
	}
	if candidate == nil {
		return ErrCandidateNotFound
	}

	now := s.now()
	candidate.IsSelected = true
	candidate.IsUserConfirmed = userConfirmed
	candidate.UpdatedAt = &now
	if err := candidates.Update(ctx, candidate); err != nil {
		return err
	}

	recording.MeetingId = &meetingId
	recording.CorrelationConfidence = &confidence
	recording.CorrelationMethod = &method
	recording.UpdatedAt = &now
	return uow.RecordingRepository().Update(ctx, recording)
}

func (s *correlationService) CorrelateUnlinked(ctx context.Context) (*dto.CorrelateUnlinkedResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings, err := uow.RecordingRepository().FindAll(ctx,
		specification.Unlinked{},
		specification.AutoLinkable{},
		specification.OrderBy{Field: "date_recorded"},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.CorrelateUnlinkedResponse{Failed: make([]dto.BatchFailure, 0)}
	for _, recording := range recordings {
		res.Processed++
		result, err := s.CorrelateRecording(ctx, recording.Id)
		if err != nil {
			res.Failed = append(res.Failed, dto.BatchFailure{Id: recording.Id, Reason: err.Error()})
			continue
		}
		if result.Linked {
			res.Linked++
		}
	}

	s.logger.Info(moduleCorrelation, "Correlated unlinked recordings", map[string]interface{}{
		"processed": res.Processed,
		"linked":    res.Linked,
		"failed":    len(res.Failed),
	})
	return res, nil
}

// AddRecordingMeetingCandidate stores a candidate proposed by an external
// matcher. An AI-selected candidate becomes the link unless the user has
// already decided.
func (s *correlationService) AddRecordingMeetingCandidate(ctx context.Context, req *dto.AddCandidateRequest) (*dto.CandidateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	recording, meeting, err := s.loadPair(ctx, uow, req.RecordingId, req.MeetingId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidate := &entity.RecordingMeetingCandidate{
		RecordingId:     req.RecordingId,
		MeetingId:       req.MeetingId,
		ConfidenceScore: req.ConfidenceScore,
		MatchReason:     req.MatchReason,
		IsAiSelected:    req.IsAiSelected,
		CreatedAt:       now,
		UpdatedAt:       &now,
	}
	if err := uow.CandidateRepository().Upsert(ctx, candidate); err != nil {
		return nil, err
	}

	if req.IsAiSelected && !correlation.IsUserDecision(recording.CorrelationMethod) {
		err := s.selectCandidate(ctx, uow, recording, req.MeetingId, req.ConfidenceScore, correlation.MethodAITranscriptMatch, false)
		if err != nil {
			return nil, err
		}
		candidate.IsSelected = true
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := toCandidateResponse(&entity.CandidateDetail{
		RecordingMeetingCandidate: *candidate,
		Subject:                   meeting.Subject,
		StartTime:                 meeting.StartTime,
		EndTime:                   meeting.EndTime,
	})
	return &res, nil
}

func (s *correlationService) loadPair(ctx context.Context, uow unitofwork.UnitOfWork, recordingId uuid.UUID, meetingId string) (*entity.Recording, *entity.Meeting, error) {
	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, nil, err
	}
	if recording == nil {
		return nil, nil, ErrRecordingNotFound
	}

	meeting, err := uow.MeetingRepository().FindOne(ctx, specification.ByMeetingID{ID: meetingId})
	if err != nil {
		return nil, nil, err
	}
	if meeting == nil {
		return nil, nil, ErrMeetingNotFound
	}
	return recording, meeting, nil
}

// SelectMeetingForRecording records the user's choice of meeting. The
// candidate row is created when the meeting was never scored.
func (s *correlationService) SelectMeetingForRecording(ctx context.Context, recordingId uuid.UUID, meetingId string) (*dto.RecordingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	recording, _, err := s.loadPair(ctx, uow, recordingId, meetingId)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCandidate(ctx, uow.CandidateRepository(), recordingId, meetingId); err != nil {
		return nil, err
	}
	err = s.selectCandidate(ctx, uow, recording, meetingId, UserDecisionConfidence, correlation.MethodUserOverride, true)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(moduleCorrelation, "Meeting selected by user", map[string]interface{}{
		"recording_id": recordingId,
		"meeting_id":   meetingId,
	})
	res := toRecordingResponse(recording)
	return &res, nil
}

func (s *correlationService) ensureCandidate(ctx context.Context, candidates contract.CandidateRepository, recordingId uuid.UUID, meetingId string) error {
	existing, err := candidates.FindOne(ctx,
		specification.ByRecordingID{RecordingID: recordingId},
		specification.CandidateForMeeting{MeetingID: meetingId},
	)
	if err != nil || existing != nil {
		return err
	}

	now := s.now()
	return candidates.Upsert(ctx, &entity.RecordingMeetingCandidate{
		RecordingId:     recordingId,
		MeetingId:       meetingId,
		ConfidenceScore: UserDecisionConfidence,
		MatchReason:     correlation.MethodUserOverride,
		CreatedAt:       now,
		UpdatedAt:       &now,
	})
}

// SelectMeetingForRecordingByUser applies the user's decision. A nil meeting
// marks the recording as standalone.
func (s *correlationService) SelectMeetingForRecordingByUser(ctx context.Context, recordingId uuid.UUID, req *dto.SelectMeetingRequest) (*dto.RecordingResponse, error) {
	if req.MeetingId != nil {
		return s.SelectMeetingForRecording(ctx, recordingId, *req.MeetingId)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	recordings := uow.RecordingRepository()
	recording, err := recordings.FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	if err := uow.CandidateRepository().ClearSelections(ctx, recordingId); err != nil {
		return nil, err
	}

	now := s.now()
	confidence := UserDecisionConfidence
	method := correlation.MethodUserStandalone
	recording.MeetingId = nil
	recording.CorrelationConfidence = &confidence
	recording.CorrelationMethod = &method
	recording.UpdatedAt = &now
	if err := recordings.Update(ctx, recording); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(moduleCorrelation, "Recording marked standalone", map[string]interface{}{"recording_id": recordingId})
	res := toRecordingResponse(recording)
	return &res, nil
}

func (s *correlationService) GetCandidates(ctx context.Context, recordingId uuid.UUID) ([]dto.CandidateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	details, err := uow.CandidateRepository().FindDetails(ctx, recordingId)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CandidateResponse, 0, len(details))
	for _, d := range details {
		res = append(res, toCandidateResponse(d))
	}
	return res, nil
}

func toCandidateResponse(d *entity.CandidateDetail) dto.CandidateResponse {
	res := dto.CandidateResponse{
		Id:              d.Id,
		RecordingId:     d.RecordingId,
		MeetingId:       d.MeetingId,
		ConfidenceScore: d.ConfidenceScore,
		MatchReason:     d.MatchReason,
		IsSelected:      d.IsSelected,
		IsAiSelected:    d.IsAiSelected,
		IsUserConfirmed: d.IsUserConfirmed,
		Subject:         d.Subject,
	}
	if !d.StartTime.IsZero() {
		start, end := d.StartTime, d.EndTime
		res.StartTime = &start
		res.EndTime = &end
	}
	return res
}

func (s *correlationService) GetRecordingMatchInfo(ctx context.Context, recordingId uuid.UUID) (*dto.RecordingMatchInfoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	var (
		meeting  *entity.Meeting
		interval *correlation.Interval
	)
	if recording.HasMeeting() {
		meeting, err = uow.MeetingRepository().FindOne(ctx, specification.ByMeetingID{ID: *recording.MeetingId})
		if err != nil {
			return nil, err
		}
		if meeting != nil {
			i := meeting.Interval()
			interval = &i
		}
	}

	count, err := uow.CandidateRepository().Count(ctx, specification.ByRecordingID{RecordingID: recordingId})
	if err != nil {
		return nil, err
	}

	return &dto.RecordingMatchInfoResponse{
		Recording:      toRecordingResponse(recording),
		Meeting:        toMeetingResponse(meeting),
		DurationMatch:  string(s.config.ClassifyDuration(recording.DurationSeconds, interval)),
		CandidateCount: int(count),
		HasConflicts:   count > 1,
	}, nil
}
