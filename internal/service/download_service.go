package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/memory"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"
	"github.com/sgeraldes/hidock-next-sub000/pkg/hidock"

	"github.com/google/uuid"
)

const moduleDownload = "DOWNLOAD"

const cancelledReason = "Cancelled"

type IDownloadService interface {
	IsFileAlreadySynced(ctx context.Context, filename string) (*dto.SyncCheckResponse, error)
	QueueDownloads(ctx context.Context, req *dto.QueueDownloadsRequest) (*dto.QueueDownloadsResponse, error)
	StartSyncSession(ctx context.Context, req *dto.QueueDownloadsRequest) (*dto.StartSyncSessionResponse, error)
	ProcessDownload(ctx context.Context, filename string, data []byte) (*dto.ProcessDownloadResponse, error)
	UpdateProgress(ctx context.Context, filename string, req *dto.UpdateProgressRequest) error
	MarkFailed(ctx context.Context, filename string, req *dto.MarkFailedRequest) error
	ClearCompleted(ctx context.Context) *dto.ClearCompletedResponse
	CancelAll(ctx context.Context) *dto.CancelAllResponse
	GetState(ctx context.Context) *dto.DownloadQueueState
	GetSyncStats(ctx context.Context) (*dto.SyncStatsResponse, error)
	ReconcileDeviceListing(ctx context.Context, req *dto.QueueDownloadsRequest) (*dto.ReconcileDeviceListingResponse, error)
	ResetSyncState(ctx context.Context) (*dto.ResetSyncStateResponse, error)
}

type downloadService struct {
	uowFactory unitofwork.RepositoryFactory
	queue      *memory.DownloadQueueRepository
	files      filestore.Store
	publisher  IStatePublisher
	logger     logger.ILogger

	// mu guards queue transitions plus session and paused. While paused no
	// pending item is admitted to downloading.
	mu      sync.Mutex
	session *entity.SyncSession
	paused  bool

	now         func() time.Time
	deviceClock *time.Location
}

func NewDownloadService(
	uowFactory unitofwork.RepositoryFactory,
	queue *memory.DownloadQueueRepository,
	files filestore.Store,
	publisher IStatePublisher,
	log logger.ILogger,
) IDownloadService {
	return &downloadService{
		uowFactory:  uowFactory,
		queue:       queue,
		files:       files,
		publisher:   publisher,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
		deviceClock: time.Local,
	}
}

// IsFileAlreadySynced runs the dedup checks in order; the first hit wins.
func (s *downloadService) IsFileAlreadySynced(ctx context.Context, filename string) (*dto.SyncCheckResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ledger := uow.SyncedFileRepository()

	names := append([]string{filename}, hidock.ExtensionVariants(filename)...)
	for _, name := range names {
		entry, err := ledger.FindOne(ctx, specification.ByOriginalFilename{Filename: name})
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return &dto.SyncCheckResponse{Synced: true, Reason: fmt.Sprintf("Found in synced_files as %s", name)}, nil
		}
	}

	for _, local := range s.expectedLocalPaths(filename) {
		if !s.files.PathExists(local) {
			continue
		}
		s.reconcileLedger(ctx, filename, local)
		return &dto.SyncCheckResponse{Synced: true, Reason: fmt.Sprintf("File exists locally at %s", local)}, nil
	}

	recording, err := uow.RecordingRepository().FindOne(ctx, specification.ByID{ID: hidock.RecordingID(filename)})
	if err != nil {
		return nil, err
	}
	if recording != nil && recording.FilePath != nil && s.files.PathExists(*recording.FilePath) {
		return &dto.SyncCheckResponse{Synced: true, Reason: fmt.Sprintf("Recording exists with local file at %s", *recording.FilePath)}, nil
	}

	return &dto.SyncCheckResponse{Synced: false, Reason: "Not synced"}, nil
}

func (s *downloadService) expectedLocalPaths(filename string) []string {
	playback := s.files.PathFor(hidock.LocalFilename(filename))
	raw := s.files.PathFor(filename)
	if raw == playback {
		return []string{playback}
	}
	return []string{playback, raw}
}

// reconcileLedger records a file that is on disk but missing from the ledger.
// A failure here only costs a repeat check next time.
func (s *downloadService) reconcileLedger(ctx context.Context, filename, path string) {
	size, err := s.files.FileSize(path)
	if err != nil {
		s.logger.Warn(moduleDownload, "Failed to stat local file", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err = uow.SyncedFileRepository().Upsert(ctx, &entity.SyncedFile{
		Id:               uuid.New(),
		OriginalFilename: filename,
		LocalFilename:    filepath.Base(path),
		FilePath:         path,
		FileSize:         size,
		SyncedAt:         s.now(),
	})
	if err != nil {
		s.logger.Warn(moduleDownload, "Failed to reconcile synced file", map[string]interface{}{"filename": filename, "error": err.Error()})
		return
	}
	s.logger.Info(moduleDownload, "Reconciled untracked local file", map[string]interface{}{"filename": filename, "path": path})
}

func (s *downloadService) QueueDownloads(ctx context.Context, req *dto.QueueDownloadsRequest) (*dto.QueueDownloadsResponse, error) {
	res := s.queueFiles(ctx, req.Files)
	s.publish(ctx)
	return res, nil
}

func (s *downloadService) queueFiles(ctx context.Context, files []dto.DeviceFileRequest) *dto.QueueDownloadsResponse {
	res := &dto.QueueDownloadsResponse{
		Queued:  make([]string, 0),
		Skipped: make([]dto.SkippedFile, 0),
	}

	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()

	for _, file := range files {
		if s.inFlight(file.Filename) {
			res.Skipped = append(res.Skipped, dto.SkippedFile{Filename: file.Filename, Reason: "Already queued"})
			continue
		}

		// A failed item is only retried when the file is still unsynced.
		check, err := s.IsFileAlreadySynced(ctx, file.Filename)
		if err != nil {
			s.logger.Error(moduleDownload, "Sync check failed", map[string]interface{}{"filename": file.Filename, "error": err.Error()})
			res.Skipped = append(res.Skipped, dto.SkippedFile{Filename: file.Filename, Reason: fmt.Sprintf("Sync check failed: %v", err)})
			continue
		}
		if check.Synced {
			res.Skipped = append(res.Skipped, dto.SkippedFile{Filename: file.Filename, Reason: check.Reason})
			continue
		}

		if requeued, skipped := s.requeueExisting(file.Filename); requeued {
			res.Queued = append(res.Queued, file.Filename)
			continue
		} else if skipped {
			res.Skipped = append(res.Skipped, dto.SkippedFile{Filename: file.Filename, Reason: "Already queued"})
			continue
		}

		item := &entity.DownloadQueueItem{
			Filename:        file.Filename,
			FileSize:        file.Size,
			DurationSeconds: file.DurationSeconds,
			DateRecorded:    file.DateRecorded,
			Status:          entity.QueueStatusPending,
			QueuedAt:        s.now(),
		}
		if !s.queue.Add(item) {
			res.Skipped = append(res.Skipped, dto.SkippedFile{Filename: file.Filename, Reason: "Already queued"})
			continue
		}
		res.Queued = append(res.Queued, file.Filename)
	}

	s.logger.Info(moduleDownload, "Queued downloads", map[string]interface{}{
		"queued":  len(res.Queued),
		"skipped": len(res.Skipped),
	})
	return res
}

// inFlight reports whether filename is queued in any state but failed.
func (s *downloadService) inFlight(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.queue.Get(filename)
	return ok && item.Status != entity.QueueStatusFailed
}

// requeueExisting resets a failed item to pending. skipped is true when the
// filename is already queued in any other state.
func (s *downloadService) requeueExisting(filename string) (requeued, skipped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.queue.Get(filename)
	if !ok {
		return false, false
	}
	if item.Status != entity.QueueStatusFailed {
		return false, true
	}

	item.Status = entity.QueueStatusPending
	item.Progress = 0
	item.Error = nil
	item.StartedAt = nil
	item.CompletedAt = nil
	item.QueuedAt = s.now()
	s.queue.Save(item)
	return true, false
}

// StartSyncSession queues files and opens a session whose total is the number
// of pending and downloading items; finished items left in the queue are not counted.
func (s *downloadService) StartSyncSession(ctx context.Context, req *dto.QueueDownloadsRequest) (*dto.StartSyncSessionResponse, error) {
	queued := s.queueFiles(ctx, req.Files)

	s.mu.Lock()
	total := 0
	for _, item := range s.queue.List() {
		if item.IsActive() {
			total++
		}
	}
	now := s.now()
	session := &entity.SyncSession{
		Id:        uuid.New(),
		Total:     total,
		Status:    entity.SessionActive,
		StartedAt: now,
	}
	session.Finish(now)
	s.session = session
	snapshot := *session
	s.mu.Unlock()

	s.logger.Info(moduleDownload, "Sync session started", map[string]interface{}{"session_id": snapshot.Id, "total": total})
	s.publish(ctx)

	return &dto.StartSyncSessionResponse{
		QueueDownloadsResponse: *queued,
		Session:                *toSessionResponse(&snapshot),
	}, nil
}

func (s *downloadService) ProcessDownload(ctx context.Context, filename string, data []byte) (*dto.ProcessDownloadResponse, error) {
	item, err := s.begin(filename)
	if err != nil {
		return nil, err
	}
	s.publish(ctx)

	res := &dto.ProcessDownloadResponse{
		Filename:    filename,
		RecordingId: hidock.RecordingID(filename),
	}

	path, err := s.files.SaveBytes(hidock.LocalFilename(filename), data)
	if err == nil {
		err = s.persistDownload(ctx, item, path, int64(len(data)))
	}
	if err != nil {
		s.logger.Error(moduleDownload, "Download failed", map[string]interface{}{"filename": filename, "error": err.Error()})
		msg := err.Error()
		s.finish(filename, entity.QueueStatusFailed, &msg)
		s.publish(ctx)

		res.Status = string(entity.QueueStatusFailed)
		res.Error = &msg
		return res, nil
	}

	s.finish(filename, entity.QueueStatusCompleted, nil)
	s.publish(ctx)
	s.logger.Info(moduleDownload, "Download completed", map[string]interface{}{"filename": filename, "path": path})

	res.FilePath = path
	res.Status = string(entity.QueueStatusCompleted)
	return res, nil
}

func (s *downloadService) begin(filename string) (*entity.DownloadQueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.queue.Get(filename)
	if !ok {
		return nil, ErrFileNotInQueue
	}
	if item.Status != entity.QueueStatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, filename, item.Status)
	}
	if s.paused {
		return nil, fmt.Errorf("%w: queue is paused", ErrInvalidTransition)
	}

	now := s.now()
	item.Status = entity.QueueStatusDownloading
	item.Progress = 0
	item.StartedAt = &now
	s.queue.Save(item)
	return item, nil
}

// persistDownload writes the ledger row and the recording's local presence
// in one transaction.
func (s *downloadService) persistDownload(ctx context.Context, item *entity.DownloadQueueItem, path string, size int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := s.now()
	err := uow.SyncedFileRepository().Upsert(ctx, &entity.SyncedFile{
		Id:               uuid.New(),
		OriginalFilename: item.Filename,
		LocalFilename:    filepath.Base(path),
		FilePath:         path,
		FileSize:         size,
		SyncedAt:         now,
	})
	if err != nil {
		return fmt.Errorf("write synced file: %w", err)
	}

	recordings := uow.RecordingRepository()
	id := hidock.RecordingID(item.Filename)
	recording, err := recordings.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}

	if recording == nil {
		recording = &entity.Recording{
			Id:                  id,
			Filename:            item.Filename,
			FileSize:            size,
			DurationSeconds:     item.DurationSeconds,
			DateRecorded:        s.recordedAt(item.Filename, item.DateRecorded),
			TranscriptionStatus: entity.TranscriptionNone,
			CreatedAt:           now,
		}
		recording.FilePath = &path
		recording.DeviceLastSeen = &now
		recording.SetPresence(true, true)
		if err := recordings.Create(ctx, recording); err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
	} else {
		recording.FilePath = &path
		recording.DeviceLastSeen = &now
		recording.SetPresence(true, true)
		if recording.FileSize == 0 {
			recording.FileSize = size
		}
		if recording.DurationSeconds == nil {
			recording.DurationSeconds = item.DurationSeconds
		}
		recording.UpdatedAt = &now
		if err := recordings.Update(ctx, recording); err != nil {
			return fmt.Errorf("update recording: %w", err)
		}
	}

	return uow.Commit()
}

// recordedAt prefers the device-reported date, then the date encoded in the
// filename, then the current time.
func (s *downloadService) recordedAt(filename string, reported *time.Time) time.Time {
	if reported != nil && !reported.IsZero() {
		return reported.UTC()
	}
	if t, ok := hidock.ParseRecordingDate(filename, s.deviceClock); ok {
		return t.UTC()
	}
	return s.now()
}

// finish records the outcome of a download and bumps the session counters.
func (s *downloadService) finish(filename string, status entity.QueueStatus, reason *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.queue.Get(filename)
	if !ok {
		return
	}

	now := s.now()
	item.Status = status
	item.CompletedAt = &now
	item.Error = reason
	if status == entity.QueueStatusCompleted {
		item.Progress = 100
	}
	s.queue.Save(item)
	s.countOutcome(status, now)
}

// countOutcome must be called with mu held.
func (s *downloadService) countOutcome(status entity.QueueStatus, now time.Time) {
	if s.session == nil || s.session.Status != entity.SessionActive {
		return
	}
	switch status {
	case entity.QueueStatusCompleted:
		s.session.Completed++
	case entity.QueueStatusFailed:
		s.session.Failed++
	}
	if s.session.Finish(now) {
		s.logger.Info(moduleDownload, "Sync session completed", map[string]interface{}{
			"session_id": s.session.Id,
			"completed":  s.session.Completed,
			"failed":     s.session.Failed,
		})
	}
}

func (s *downloadService) UpdateProgress(ctx context.Context, filename string, req *dto.UpdateProgressRequest) error {
	s.mu.Lock()
	item, ok := s.queue.Get(filename)
	if !ok {
		s.mu.Unlock()
		return ErrFileNotInQueue
	}
	if !item.IsActive() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, filename, item.Status)
	}
	item.Progress = progressPercent(req.BytesReceived, item.FileSize)
	s.queue.Save(item)
	s.mu.Unlock()

	s.publish(ctx)
	return nil
}

func progressPercent(received, size int64) int {
	if size <= 0 || received <= 0 {
		return 0
	}
	p := int(math.Round(float64(received) / float64(size) * 100))
	if p > 100 {
		return 100
	}
	return p
}

func (s *downloadService) MarkFailed(ctx context.Context, filename string, req *dto.MarkFailedRequest) error {
	s.mu.Lock()
	item, ok := s.queue.Get(filename)
	if !ok {
		s.mu.Unlock()
		return ErrFileNotInQueue
	}
	if !item.IsActive() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, filename, item.Status)
	}

	now := s.now()
	reason := req.Error
	item.Status = entity.QueueStatusFailed
	item.Error = &reason
	item.CompletedAt = &now
	s.queue.Save(item)
	s.countOutcome(entity.QueueStatusFailed, now)
	s.mu.Unlock()

	s.logger.Warn(moduleDownload, "Download marked failed", map[string]interface{}{"filename": filename, "error": reason})
	s.publish(ctx)
	return nil
}

// ClearCompleted drops completed items. Failed items stay so they can be
// inspected or re-queued.
func (s *downloadService) ClearCompleted(ctx context.Context) *dto.ClearCompletedResponse {
	s.mu.Lock()
	cleared := 0
	for _, item := range s.queue.List() {
		if item.Status == entity.QueueStatusCompleted {
			s.queue.Delete(item.Filename)
			cleared++
		}
	}
	s.mu.Unlock()

	s.publish(ctx)
	return &dto.ClearCompletedResponse{Cleared: cleared}
}

// CancelAll pauses the queue and fails every pending item. Transfers that
// are already downloading run to completion.
func (s *downloadService) CancelAll(ctx context.Context) *dto.CancelAllResponse {
	s.mu.Lock()
	s.paused = true
	now := s.now()
	cancelled := 0
	for _, item := range s.queue.List() {
		if item.Status != entity.QueueStatusPending {
			continue
		}
		reason := cancelledReason
		item.Status = entity.QueueStatusFailed
		item.Error = &reason
		item.CompletedAt = &now
		s.queue.Save(item)
		cancelled++
	}
	if s.session != nil && s.session.Status == entity.SessionActive {
		s.session.Failed += cancelled
		s.session.Status = entity.SessionCancelled
		s.session.CompletedAt = &now
	}
	s.mu.Unlock()

	s.logger.Info(moduleDownload, "Queue cancelled", map[string]interface{}{"cancelled": cancelled})
	s.publish(ctx)
	return &dto.CancelAllResponse{Cancelled: cancelled}
}

func (s *downloadService) GetState(ctx context.Context) *dto.DownloadQueueState {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.queue.List()
	state := &dto.DownloadQueueState{
		Items:  make([]dto.DownloadQueueItemResponse, 0, len(items)),
		Paused: s.paused,
	}
	for _, item := range items {
		state.Items = append(state.Items, toQueueItemResponse(item))
	}
	if s.session != nil {
		snapshot := *s.session
		state.Session = toSessionResponse(&snapshot)
	}
	return state
}

func (s *downloadService) GetSyncStats(ctx context.Context) (*dto.SyncStatsResponse, error) {
	state := s.GetState(ctx)

	res := &dto.SyncStatsResponse{Session: state.Session}
	for _, item := range state.Items {
		switch entity.QueueStatus(item.Status) {
		case entity.QueueStatusPending:
			res.Pending++
		case entity.QueueStatusDownloading:
			res.Downloading++
		case entity.QueueStatusCompleted:
			res.Completed++
		case entity.QueueStatusFailed:
			res.Failed++
		}
	}
	res.Total = len(state.Items)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	synced, err := uow.SyncedFileRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	res.SyncedFiles = synced
	return res, nil
}

// ReconcileDeviceListing applies a full device listing to the recordings
// table. Listed files are marked present on the device (unknown ones are
// created device-only); recordings absent from the listing lose on_device.
func (s *downloadService) ReconcileDeviceListing(ctx context.Context, req *dto.QueueDownloadsRequest) (*dto.ReconcileDeviceListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	recordings := uow.RecordingRepository()
	now := s.now()
	res := &dto.ReconcileDeviceListingResponse{}
	seen := make(map[uuid.UUID]bool, len(req.Files))

	for _, file := range req.Files {
		id := hidock.RecordingID(file.Filename)
		if seen[id] {
			continue
		}
		seen[id] = true

		recording, err := recordings.FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}

		if recording == nil {
			recording = &entity.Recording{
				Id:                  id,
				Filename:            file.Filename,
				FileSize:            file.Size,
				DurationSeconds:     file.DurationSeconds,
				DateRecorded:        s.recordedAt(file.Filename, file.DateRecorded),
				DeviceLastSeen:      &now,
				TranscriptionStatus: entity.TranscriptionNone,
				CreatedAt:           now,
			}
			recording.SetPresence(true, false)
			if err := recordings.Create(ctx, recording); err != nil {
				return nil, fmt.Errorf("create recording %s: %w", file.Filename, err)
			}
			res.Created++
			continue
		}

		recording.SetPresence(true, recording.OnLocal)
		recording.DeviceLastSeen = &now
		recording.UpdatedAt = &now
		if err := recordings.Update(ctx, recording); err != nil {
			return nil, fmt.Errorf("update recording %s: %w", file.Filename, err)
		}
		res.Updated++
	}

	onDevice, err := recordings.FindAll(ctx, specification.OnDevice{Value: true})
	if err != nil {
		return nil, err
	}
	for _, recording := range onDevice {
		if seen[recording.Id] {
			continue
		}
		recording.SetPresence(false, recording.OnLocal)
		recording.UpdatedAt = &now
		if err := recordings.Update(ctx, recording); err != nil {
			return nil, fmt.Errorf("update recording %s: %w", recording.Filename, err)
		}
		res.MissingFromDevice++
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(moduleDownload, "Device listing reconciled", map[string]interface{}{
		"created": res.Created,
		"updated": res.Updated,
		"missing": res.MissingFromDevice,
	})
	return res, nil
}

// ResetSyncState empties the queue and session, then clears local presence
// for recordings whose file is gone from disk.
func (s *downloadService) ResetSyncState(ctx context.Context) (*dto.ResetSyncStateResponse, error) {
	s.mu.Lock()
	cleared := s.queue.Clear()
	s.session = nil
	s.paused = false
	s.mu.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	recordings := uow.RecordingRepository()
	local, err := recordings.FindAll(ctx, specification.OnLocal{Value: true})
	if err != nil {
		return nil, err
	}

	now := s.now()
	reset := 0
	for _, recording := range local {
		if recording.FilePath != nil && s.files.PathExists(*recording.FilePath) {
			continue
		}
		recording.FilePath = nil
		recording.SetPresence(recording.OnDevice, false)
		recording.UpdatedAt = &now
		if err := recordings.Update(ctx, recording); err != nil {
			return nil, err
		}
		reset++
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Warn(moduleDownload, "Sync state reset", map[string]interface{}{"queue_items": cleared, "recordings": reset})
	s.publish(ctx)
	return &dto.ResetSyncStateResponse{RecordingsReset: reset, QueueItemsReset: cleared}, nil
}

func (s *downloadService) publish(ctx context.Context) {
	if err := s.publisher.PublishQueueState(ctx, s.GetState(ctx)); err != nil {
		s.logger.Warn(moduleDownload, "Failed to publish queue state", map[string]interface{}{"error": err.Error()})
	}
}
