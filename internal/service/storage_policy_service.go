package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"

	"github.com/google/uuid"
)

const moduleStorage = "STORAGE"

const mixedTiers = "mixed"

type IStoragePolicyService interface {
	Register(bus *events.Bus)
	HandleQualityAssessed(ctx context.Context, event events.Event) error
	AssignTier(ctx context.Context, recordingId uuid.UUID, req *dto.AssignTierRequest) (*dto.TierAssignmentResponse, error)
	GetByTier(ctx context.Context, tier string) ([]dto.RecordingResponse, error)
	GetCleanupSuggestions(ctx context.Context, overrides *dto.RetentionOverrides) ([]dto.CleanupSuggestionResponse, error)
	GetCleanupSuggestionsForTier(ctx context.Context, tier string, overrides *dto.RetentionOverrides) ([]dto.CleanupSuggestionResponse, error)
	ExecuteCleanup(ctx context.Context, req *dto.ExecuteCleanupRequest) (*dto.ExecuteCleanupResponse, error)
	GetStorageStats(ctx context.Context) (*dto.StorageStatsResponse, error)
	InitializeUntieredRecordings(ctx context.Context) (*dto.InitializeUntieredResponse, error)
}

type storagePolicyService struct {
	uowFactory unitofwork.RepositoryFactory
	retention  tiering.Retention
	files      filestore.Store
	emitter    EventEmitter
	logger     logger.ILogger
	now        func() time.Time
}

func NewStoragePolicyService(
	uowFactory unitofwork.RepositoryFactory,
	retention tiering.Retention,
	files filestore.Store,
	emitter EventEmitter,
	log logger.ILogger,
) IStoragePolicyService {
	return &storagePolicyService{
		uowFactory: uowFactory,
		retention:  retention,
		files:      files,
		emitter:    emitter,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register subscribes the tier policy to quality assessments.
func (s *storagePolicyService) Register(bus *events.Bus) {
	bus.Subscribe(events.TypeQualityAssessed, s.HandleQualityAssessed)
}

func (s *storagePolicyService) HandleQualityAssessed(ctx context.Context, event events.Event) error {
	assessed, ok := event.(events.QualityAssessed)
	if !ok {
		return fmt.Errorf("%w: unexpected payload %T for %s", ErrInvalidInput, event, event.EventType())
	}

	_, err := s.AssignTier(ctx, assessed.RecordingId, &dto.AssignTierRequest{Quality: assessed.Quality})
	return err
}

func (s *storagePolicyService) AssignTier(ctx context.Context, recordingId uuid.UUID, req *dto.AssignTierRequest) (*dto.TierAssignmentResponse, error) {
	level := quality.Level(req.Quality)
	tier, ok := tiering.TierFor(level)
	if !ok {
		return nil, fmt.Errorf("%w: no tier for quality %q", ErrInvalidInput, req.Quality)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings := uow.RecordingRepository()
	recording, err := recordings.FindOne(ctx, specification.ByID{ID: recordingId})
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, ErrRecordingNotFound
	}

	previous, err := s.writeTier(ctx, recording, tier, fmt.Sprintf("Quality assessed as %s", level))
	if err != nil {
		return nil, err
	}

	return &dto.TierAssignmentResponse{
		RecordingId:  recordingId,
		Tier:         string(tier),
		PreviousTier: previous,
	}, nil
}

// writeTier stores the tier and emits storage:tier-assigned. It returns the
// tier the recording held before.
func (s *storagePolicyService) writeTier(ctx context.Context, recording *entity.Recording, tier tiering.Tier, reason string) (*string, error) {
	var previous *string
	if recording.StorageTier != nil {
		p := string(*recording.StorageTier)
		previous = &p
	}

	now := s.now()
	recording.StorageTier = &tier
	recording.UpdatedAt = &now
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.RecordingRepository().Update(ctx, recording); err != nil {
		return nil, err
	}

	s.logger.Info(moduleStorage, "Storage tier assigned", map[string]interface{}{
		"recording_id":  recording.Id,
		"tier":          tier,
		"previous_tier": previous,
	})

	err := s.emitter.Emit(ctx, events.TierAssigned{
		RecordingId:  recording.Id,
		Tier:         string(tier),
		PreviousTier: previous,
		Reason:       reason,
		OccurredAt:   now,
	})
	if err != nil {
		return previous, fmt.Errorf("dispatch %s: %w", events.TypeStorageTierAssigned, err)
	}
	return previous, nil
}

func parseTier(tier string) (tiering.Tier, error) {
	t := tiering.Tier(tier)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, tier)
	}
	return t, nil
}

func (s *storagePolicyService) GetByTier(ctx context.Context, tier string) ([]dto.RecordingResponse, error) {
	t, err := parseTier(tier)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings, err := uow.RecordingRepository().FindAll(ctx,
		specification.ByStorageTier{Tier: string(t)},
		specification.OrderBy{Field: "date_recorded"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.RecordingResponse, 0, len(recordings))
	for _, r := range recordings {
		res = append(res, toRecordingResponse(r))
	}
	return res, nil
}

func (s *storagePolicyService) retentionFor(overrides *dto.RetentionOverrides) tiering.Retention {
	if overrides == nil {
		return s.retention
	}
	return s.retention.With(map[tiering.Tier]int{
		tiering.TierHot:     overrides.HotDays,
		tiering.TierWarm:    overrides.WarmDays,
		tiering.TierCold:    overrides.ColdDays,
		tiering.TierArchive: overrides.ArchiveDays,
	})
}

// GetCleanupSuggestions lists every tiered recording past its retention,
// oldest first across tiers. Suggestions are computed on every call.
func (s *storagePolicyService) GetCleanupSuggestions(ctx context.Context, overrides *dto.RetentionOverrides) ([]dto.CleanupSuggestionResponse, error) {
	retention := s.retentionFor(overrides)
	now := s.now()

	res := make([]dto.CleanupSuggestionResponse, 0)
	for _, tier := range tiering.Order {
		suggestions, err := s.suggestionsForTier(ctx, tier, retention, now)
		if err != nil {
			return nil, err
		}
		res = append(res, suggestions...)
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].DateRecorded.Equal(res[j].DateRecorded) {
			return res[i].Filename < res[j].Filename
		}
		return res[i].DateRecorded.Before(res[j].DateRecorded)
	})
	return res, nil
}

func (s *storagePolicyService) GetCleanupSuggestionsForTier(ctx context.Context, tier string, overrides *dto.RetentionOverrides) ([]dto.CleanupSuggestionResponse, error) {
	t, err := parseTier(tier)
	if err != nil {
		return nil, err
	}
	return s.suggestionsForTier(ctx, t, s.retentionFor(overrides), s.now())
}

func (s *storagePolicyService) suggestionsForTier(ctx context.Context, tier tiering.Tier, retention tiering.Retention, now time.Time) ([]dto.CleanupSuggestionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings, err := uow.RecordingRepository().FindAll(ctx,
		specification.ByStorageTier{Tier: string(tier)},
		specification.RecordedBefore{Cutoff: retention.Cutoff(tier, now)},
		specification.OrderBy{Field: "date_recorded"},
	)
	if err != nil {
		return nil, err
	}
	if len(recordings) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(recordings))
	for i, r := range recordings {
		ids[i] = r.Id
	}

	assessments, err := uow.QualityAssessmentRepository().FindAll(ctx, specification.ByRecordingIDs{RecordingIDs: ids})
	if err != nil {
		return nil, err
	}
	levels := make(map[uuid.UUID]string, len(assessments))
	for _, a := range assessments {
		levels[a.RecordingId] = string(a.Quality)
	}

	transcripts, err := uow.TranscriptRepository().FindAll(ctx, specification.ByRecordingIDs{RecordingIDs: ids})
	if err != nil {
		return nil, err
	}
	transcribed := make(map[uuid.UUID]bool, len(transcripts))
	for _, t := range transcripts {
		transcribed[t.RecordingId] = true
	}

	days := retention[tier]
	res := make([]dto.CleanupSuggestionResponse, 0, len(recordings))
	for _, r := range recordings {
		age := tiering.AgeInDays(r.DateRecorded, now)
		suggestion := dto.CleanupSuggestionResponse{
			RecordingId:   r.Id,
			Filename:      r.Filename,
			Tier:          string(tier),
			DateRecorded:  r.DateRecorded,
			AgeInDays:     age,
			RetentionDays: days,
			FileSize:      r.FileSize,
			OnLocal:       r.OnLocal,
			HasTranscript: transcribed[r.Id],
			HasMeeting:    r.HasMeeting(),
			Reason:        tiering.ExceedsReason(tier, days, age),
		}
		if level, ok := levels[r.Id]; ok {
			suggestion.Quality = &level
		}
		res = append(res, suggestion)
	}
	return res, nil
}

var (
	errAlreadyArchived = errors.New("already in archive tier")
	errNoLocalCopy     = errors.New("no local copy to delete")
	errUntiered        = errors.New("recording has no storage tier")
)

// ExecuteCleanup archives (demotes one tier) or deletes the local copy of
// each recording. Failures are collected per item.
func (s *storagePolicyService) ExecuteCleanup(ctx context.Context, req *dto.ExecuteCleanupRequest) (*dto.ExecuteCleanupResponse, error) {
	res := &dto.ExecuteCleanupResponse{
		Deleted:  make([]uuid.UUID, 0),
		Archived: make([]uuid.UUID, 0),
		Failed:   make([]dto.BatchFailure, 0),
	}
	tiers := make(map[tiering.Tier]bool)

	for _, id := range req.RecordingIds {
		tier, err := s.cleanupOne(ctx, id, req.Archive)
		if err != nil {
			res.Failed = append(res.Failed, dto.BatchFailure{Id: id, Reason: err.Error()})
			continue
		}
		tiers[tier] = true
		if req.Archive {
			res.Archived = append(res.Archived, id)
		} else {
			res.Deleted = append(res.Deleted, id)
		}
	}

	succeeded := append(append([]uuid.UUID{}, res.Deleted...), res.Archived...)
	s.logger.Info(moduleStorage, "Cleanup executed", map[string]interface{}{
		"deleted":  len(res.Deleted),
		"archived": len(res.Archived),
		"failed":   len(res.Failed),
	})
	if len(succeeded) == 0 {
		return res, nil
	}

	err := s.emitter.Emit(ctx, events.CleanupSuggested{
		RecordingIds: succeeded,
		Tier:         batchTier(tiers),
		Reason:       cleanupReason(len(res.Deleted), len(res.Archived)),
		OccurredAt:   s.now(),
	})
	if err != nil {
		s.logger.Warn(moduleStorage, "Cleanup audit event failed", map[string]interface{}{"error": err.Error()})
	}
	return res, nil
}

// cleanupOne returns the tier the recording was in before cleanup.
func (s *storagePolicyService) cleanupOne(ctx context.Context, id uuid.UUID, archive bool) (tiering.Tier, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings := uow.RecordingRepository()

	recording, err := recordings.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return "", err
	}
	if recording == nil {
		return "", ErrRecordingNotFound
	}
	current := recording.Tier()

	if archive {
		if recording.StorageTier == nil {
			return "", errUntiered
		}
		next, ok := tiering.Next(current)
		if !ok {
			return "", errAlreadyArchived
		}
		if _, err := s.writeTier(ctx, recording, next, fmt.Sprintf("Archived from %s by cleanup", current)); err != nil {
			s.logger.Warn(moduleStorage, "Tier event failed after archive", map[string]interface{}{"recording_id": id, "error": err.Error()})
		}
		return current, nil
	}

	if !recording.OnLocal || recording.FilePath == nil {
		return "", errNoLocalCopy
	}
	if err := s.files.DeleteLocal(*recording.FilePath); err != nil {
		return "", err
	}

	now := s.now()
	recording.FilePath = nil
	recording.SetPresence(recording.OnDevice, false)
	recording.UpdatedAt = &now
	if err := recordings.Update(ctx, recording); err != nil {
		return "", err
	}
	return current, nil
}

func batchTier(tiers map[tiering.Tier]bool) string {
	if len(tiers) != 1 {
		return mixedTiers
	}
	for t := range tiers {
		return string(t)
	}
	return mixedTiers
}

func cleanupReason(deleted, archived int) string {
	var parts []string
	if deleted > 0 {
		parts = append(parts, fmt.Sprintf("deleted %d local copies", deleted))
	}
	if archived > 0 {
		parts = append(parts, fmt.Sprintf("archived %d recordings", archived))
	}
	return "Cleanup " + strings.Join(parts, ", ")
}

func (s *storagePolicyService) GetStorageStats(ctx context.Context) (*dto.StorageStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	usage, err := uow.RecordingRepository().TierUsage(ctx)
	if err != nil {
		return nil, err
	}

	byTier := make(map[tiering.Tier]entity.TierUsage, len(usage))
	res := &dto.StorageStatsResponse{
		Tiers:    make([]dto.TierStats, 0, len(tiering.Order)),
		Untiered: dto.TierStats{Tier: "untiered"},
	}
	for _, u := range usage {
		res.TotalRecordings += u.Count
		res.TotalSize += u.TotalSize
		if u.Tier == nil {
			res.Untiered.Count += u.Count
			res.Untiered.TotalSize += u.TotalSize
			continue
		}
		byTier[*u.Tier] = u
	}
	for _, t := range tiering.Order {
		u := byTier[t]
		res.Tiers = append(res.Tiers, dto.TierStats{Tier: string(t), Count: u.Count, TotalSize: u.TotalSize})
	}
	return res, nil
}

// InitializeUntieredRecordings tiers every recording that has none, from its
// assessment when one exists and the default tier otherwise.
func (s *storagePolicyService) InitializeUntieredRecordings(ctx context.Context) (*dto.InitializeUntieredResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recordings, err := uow.RecordingRepository().FindAll(ctx, specification.Untiered{})
	if err != nil {
		return nil, err
	}

	res := &dto.InitializeUntieredResponse{ByTier: make(map[string]int)}
	if len(recordings) == 0 {
		return res, nil
	}

	ids := make([]uuid.UUID, len(recordings))
	for i, r := range recordings {
		ids[i] = r.Id
	}
	assessments, err := uow.QualityAssessmentRepository().FindAll(ctx, specification.ByRecordingIDs{RecordingIDs: ids})
	if err != nil {
		return nil, err
	}
	levels := make(map[uuid.UUID]quality.Level, len(assessments))
	for _, a := range assessments {
		levels[a.RecordingId] = a.Quality
	}

	for _, r := range recordings {
		tier := tiering.DefaultTier
		reason := "Default tier for unassessed recording"
		if level, ok := levels[r.Id]; ok {
			if t, ok := tiering.TierFor(level); ok {
				tier = t
				reason = fmt.Sprintf("Quality assessed as %s", level)
			}
		}

		if _, err := s.writeTier(ctx, r, tier, reason); err != nil {
			return nil, fmt.Errorf("initialize tier for %s: %w", r.Id, err)
		}
		res.Initialized++
		res.ByTier[string(tier)]++
	}

	s.logger.Info(moduleStorage, "Untiered recordings initialized", map[string]interface{}{"count": res.Initialized})
	return res, nil
}
