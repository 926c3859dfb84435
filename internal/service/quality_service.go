package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"

	"github.com/google/uuid"
)

const moduleQuality = "QUALITY"

const defaultManualReason = "Manually assessed"

// EventEmitter is the publishing half of the domain event bus.
type EventEmitter interface {
	Emit(ctx context.Context, event events.Event) error
}

type IQualityService interface {
	InferQuality(ctx context.Context, recordingId uuid.UUID) (*dto.QualityInferenceResponse, error)
	AssessQuality(ctx context.Context, req *dto.AssessQualityRequest) (*dto.QualityAssessmentResponse, error)
	AutoAssess(ctx context.Context, recordingId uuid.UUID, req *dto.AutoAssessRequest) (*dto.QualityAssessmentResponse, error)
	BatchAutoAssess(ctx context.Context, req *dto.BatchAutoAssessRequest) (*dto.BatchAssessResponse, error)
	AssessUnassessed(ctx context.Context) (*dto.BatchAssessResponse, error)
	GetQuality(ctx context.Context, recordingId uuid.UUID) (*dto.QualityAssessmentResponse, error)
	GetByQuality(ctx context.Context, level string) ([]*dto.QualityAssessmentResponse, error)
}

type qualityService struct {
	uowFactory unitofwork.RepositoryFactory
	config     quality.Config
	emitter    EventEmitter
	logger     logger.ILogger
	now        func() time.Time
}

func NewQualityService(
	uowFactory unitofwork.RepositoryFactory,
	config quality.Config,
	emitter EventEmitter,
	log logger.ILogger,
) IQualityService {
	return &qualityService{
		uowFactory: uowFactory,
		config:     config,
		emitter:    emitter,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *qualityService) InferQuality(ctx context.Context, recordingId uuid.UUID) (*dto.QualityInferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	transcript, err := uow.TranscriptRepository().FindOne(ctx,
		specification.ByRecordingID{RecordingID: recordingId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := s.config.Infer(qualityInput(recording, transcript))
	return &dto.QualityInferenceResponse{
		RecordingId: recordingId,
		Quality:     string(result.Level),
		Score:       result.Score,
		Confidence:  result.Confidence,
		Reasons:     result.Reasons,
	}, nil
}

func qualityInput(recording *entity.Recording, transcript *entity.Transcript) quality.Input {
	in := quality.Input{
		HasMeeting:            recording.HasMeeting(),
		CorrelationConfidence: recording.CorrelationConfidence,
		DurationSeconds:       recording.DurationSeconds,
		FileSize:              recording.FileSize,
	}
	if transcript != nil {
		in.HasTranscript = true
		in.WordCount = transcript.WordCount
		in.HasSummary = transcript.HasSummary()
	}
	return in
}

// AssessQuality stores a manual assessment. Manual assessments always carry
// full confidence.
func (s *qualityService) AssessQuality(ctx context.Context, req *dto.AssessQualityRequest) (*dto.QualityAssessmentResponse, error) {
	level := quality.Level(req.Quality)
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown quality %q", ErrInvalidInput, req.Quality)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: req.RecordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultManualReason
	}

	return s.save(ctx, &entity.QualityAssessment{
		RecordingId:      req.RecordingId,
		Quality:          level,
		AssessmentMethod: quality.MethodManual,
		Confidence:       quality.ManualConfidence,
		Reason:           reason,
	})
}

// AutoAssess scores one recording. An existing manual assessment is returned
// unchanged unless OverrideManual is set.
func (s *qualityService) AutoAssess(ctx context.Context, recordingId uuid.UUID, req *dto.AutoAssessRequest) (*dto.QualityAssessmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.QualityAssessmentRepository().FindOne(ctx, specification.ByRecordingID{RecordingID: recordingId})
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsManual() && !req.OverrideManual {
		return toAssessmentResponse(existing), nil
	}

	inferred, err := s.InferQuality(ctx, recordingId)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, &entity.QualityAssessment{
		RecordingId:      recordingId,
		Quality:          quality.Level(inferred.Quality),
		AssessmentMethod: quality.MethodAuto,
		Confidence:       inferred.Confidence,
		Reason:           quality.Result{Reasons: inferred.Reasons}.Reason(),
	})
}

// save upserts the assessment and then emits quality:assessed. The write is
// committed before any subscriber runs.
func (s *qualityService) save(ctx context.Context, assessment *entity.QualityAssessment) (*dto.QualityAssessmentResponse, error) {
	assessment.AssessedAt = s.now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.QualityAssessmentRepository().Upsert(ctx, assessment); err != nil {
		return nil, err
	}

	s.logger.Info(moduleQuality, "Quality assessed", map[string]interface{}{
		"recording_id": assessment.RecordingId,
		"quality":      assessment.Quality,
		"method":       assessment.AssessmentMethod,
	})

	err := s.emitter.Emit(ctx, events.QualityAssessed{
		RecordingId:      assessment.RecordingId,
		Quality:          string(assessment.Quality),
		AssessmentMethod: assessment.AssessmentMethod,
		Confidence:       assessment.Confidence,
		Reason:           assessment.Reason,
		OccurredAt:       s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch %s: %w", events.TypeQualityAssessed, err)
	}

	return toAssessmentResponse(assessment), nil
}

// BatchAutoAssess scores many recordings with three bulk reads instead of
// three reads per recording.
func (s *qualityService) BatchAutoAssess(ctx context.Context, req *dto.BatchAutoAssessRequest) (*dto.BatchAssessResponse, error) {
	res := &dto.BatchAssessResponse{
		Assessed: make([]uuid.UUID, 0),
		Skipped:  make([]uuid.UUID, 0),
		Failed:   make([]dto.BatchFailure, 0),
	}
	if len(req.RecordingIds) == 0 {
		return res, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings, err := uow.RecordingRepository().FindAll(ctx, specification.ByIDs{IDs: req.RecordingIds})
	if err != nil {
		return nil, err
	}
	transcripts, err := uow.TranscriptRepository().FindAll(ctx,
		specification.ByRecordingIDs{RecordingIDs: req.RecordingIds},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	assessments, err := uow.QualityAssessmentRepository().FindAll(ctx, specification.ByRecordingIDs{RecordingIDs: req.RecordingIds})
	if err != nil {
		return nil, err
	}

	recordingMap := make(map[uuid.UUID]*entity.Recording, len(recordings))
	for _, r := range recordings {
		recordingMap[r.Id] = r
	}
	// Later rows win, so each recording keeps its newest transcript.
	transcriptMap := make(map[uuid.UUID]*entity.Transcript, len(transcripts))
	for _, t := range transcripts {
		transcriptMap[t.RecordingId] = t
	}
	assessmentMap := make(map[uuid.UUID]*entity.QualityAssessment, len(assessments))
	for _, a := range assessments {
		assessmentMap[a.RecordingId] = a
	}

	for _, id := range req.RecordingIds {
		recording, ok := recordingMap[id]
		if !ok {
			res.Failed = append(res.Failed, dto.BatchFailure{Id: id, Reason: ErrRecordingNotFound.Error()})
			continue
		}
		if existing, ok := assessmentMap[id]; ok && existing.IsManual() && !req.OverrideManual {
			res.Skipped = append(res.Skipped, id)
			continue
		}

		result := s.config.Infer(qualityInput(recording, transcriptMap[id]))
		_, err := s.save(ctx, &entity.QualityAssessment{
			RecordingId:      id,
			Quality:          result.Level,
			AssessmentMethod: quality.MethodAuto,
			Confidence:       result.Confidence,
			Reason:           result.Reason(),
		})
		if err != nil {
			s.logger.Error(moduleQuality, "Batch assessment failed", map[string]interface{}{"recording_id": id, "error": err.Error()})
			res.Failed = append(res.Failed, dto.BatchFailure{Id: id, Reason: err.Error()})
			continue
		}
		res.Assessed = append(res.Assessed, id)
	}

	return res, nil
}

func (s *qualityService) AssessUnassessed(ctx context.Context) (*dto.BatchAssessResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings, err := uow.RecordingRepository().FindAll(ctx,
		specification.WithoutQualityAssessment{},
		specification.OrderBy{Field: "date_recorded"},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(recordings))
	for i, r := range recordings {
		ids[i] = r.Id
	}
	return s.BatchAutoAssess(ctx, &dto.BatchAutoAssessRequest{RecordingIds: ids})
}

func (s *qualityService) GetQuality(ctx context.Context, recordingId uuid.UUID) (*dto.QualityAssessmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	assessment, err := uow.QualityAssessmentRepository().FindOne(ctx, specification.ByRecordingID{RecordingID: recordingId})
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	return toAssessmentResponse(assessment), nil
}

func (s *qualityService) GetByQuality(ctx context.Context, level string) ([]*dto.QualityAssessmentResponse, error) {
	if !quality.Level(level).Valid() {
		return nil, fmt.Errorf("%w: unknown quality %q", ErrInvalidInput, level)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	assessments, err := uow.QualityAssessmentRepository().FindAll(ctx,
		specification.ByQuality{Quality: level},
		specification.OrderBy{Field: "assessed_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.QualityAssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		res = append(res, toAssessmentResponse(a))
	}
	return res, nil
}
