package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/implementation"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/memory"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"
	"github.com/sgeraldes/hidock-next-sub000/pkg/hidock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const deviceFile = "2025May13-160405-Rec59.hda"

type downloadFixture struct {
	svc       *downloadService
	db        *gorm.DB
	store     *filestore.LocalStore
	publisher *fakeStatePublisher
}

func newDownloadFixture(t *testing.T) *downloadFixture {
	t.Helper()
	factory, db := newTestFactory(t)
	store, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	publisher := &fakeStatePublisher{}
	svc := NewDownloadService(factory, memory.NewDownloadQueueRepository(), store, publisher, logger.NewNopLogger()).(*downloadService)
	svc.now = fixedClock
	svc.deviceClock = time.UTC

	return &downloadFixture{svc: svc, db: db, store: store, publisher: publisher}
}

func files(names ...string) *dto.QueueDownloadsRequest {
	req := &dto.QueueDownloadsRequest{}
	for _, name := range names {
		req.Files = append(req.Files, dto.DeviceFileRequest{Filename: name, Size: 5})
	}
	return req
}

func TestFreshDownloadScenario(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	queued, err := f.svc.QueueDownloads(ctx, files(deviceFile))
	require.NoError(t, err)
	assert.Equal(t, []string{deviceFile}, queued.Queued)
	assert.Equal(t, 1, f.publisher.count(), "one broadcast per batch")

	res, err := f.svc.ProcessDownload(ctx, deviceFile, []byte("audio"))
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, f.store.PathFor("2025May13-160405-Rec59.wav"), res.FilePath)
	assert.FileExists(t, res.FilePath)

	recording := findRecording(t, f.db, hidock.RecordingID(deviceFile))
	assert.True(t, recording.OnDevice)
	assert.True(t, recording.OnLocal)
	assert.Equal(t, entity.LocationBoth, recording.Location)
	assert.Equal(t, int64(5), recording.FileSize)
	assert.Equal(t, time.Date(2025, 5, 13, 16, 4, 5, 0, time.UTC), recording.DateRecorded)
	require.NotNil(t, recording.FilePath)
	assert.Equal(t, res.FilePath, *recording.FilePath)

	state := f.svc.GetState(ctx)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "completed", state.Items[0].Status)
	assert.Equal(t, 100, state.Items[0].Progress)

	// A later listing of the same device file is recognised as synced.
	f.svc.ClearCompleted(ctx)
	again, err := f.svc.QueueDownloads(ctx, files(deviceFile))
	require.NoError(t, err)
	assert.Empty(t, again.Queued)
	require.Len(t, again.Skipped, 1)
	assert.Equal(t, "Found in synced_files as "+deviceFile, again.Skipped[0].Reason)
}

func TestQueueDownloadsIsIdempotent(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	_, err := f.svc.QueueDownloads(ctx, files("a.hda", "b.hda"))
	require.NoError(t, err)
	res, err := f.svc.QueueDownloads(ctx, files("a.hda"))
	require.NoError(t, err)

	assert.Empty(t, res.Queued)
	assert.Equal(t, []dto.SkippedFile{{Filename: "a.hda", Reason: "Already queued"}}, res.Skipped)
	assert.Len(t, f.svc.GetState(ctx).Items, 2)
}

func TestIsFileAlreadySynced(t *testing.T) {
	ctx := context.Background()

	t.Run("extension variant in ledger", func(t *testing.T) {
		f := newDownloadFixture(t)
		require.NoError(t, implementation.NewSyncedFileRepository(f.db).Upsert(ctx, &entity.SyncedFile{
			Id: uuid.New(), OriginalFilename: "x.wav", LocalFilename: "x.wav", FilePath: "/tmp/x.wav", SyncedAt: testNow,
		}))

		res, err := f.svc.IsFileAlreadySynced(ctx, "x.hda")
		require.NoError(t, err)
		assert.True(t, res.Synced)
		assert.Equal(t, "Found in synced_files as x.wav", res.Reason)
	})

	t.Run("untracked local file is reconciled", func(t *testing.T) {
		f := newDownloadFixture(t)
		path, err := f.store.SaveBytes("y.wav", []byte("1234"))
		require.NoError(t, err)

		res, err := f.svc.IsFileAlreadySynced(ctx, "y.hda")
		require.NoError(t, err)
		assert.True(t, res.Synced)
		assert.Equal(t, "File exists locally at "+path, res.Reason)

		entry, err := implementation.NewSyncedFileRepository(f.db).FindOne(ctx, specification.ByOriginalFilename{Filename: "y.hda"})
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, int64(4), entry.FileSize)

		res, err = f.svc.IsFileAlreadySynced(ctx, "y.hda")
		require.NoError(t, err)
		assert.Equal(t, "Found in synced_files as y.hda", res.Reason)
	})

	t.Run("recording points at an existing file", func(t *testing.T) {
		f := newDownloadFixture(t)
		path, err := f.store.SaveBytes("renamed.wav", []byte("1"))
		require.NoError(t, err)

		r := &entity.Recording{
			Id:           hidock.RecordingID("z.hda"),
			Filename:     "z.hda",
			FilePath:     &path,
			DateRecorded: testNow,
		}
		r.SetPresence(false, true)
		require.NoError(t, implementation.NewRecordingRepository(f.db).Create(ctx, r))

		res, err := f.svc.IsFileAlreadySynced(ctx, "z.hda")
		require.NoError(t, err)
		assert.True(t, res.Synced)
		assert.Equal(t, "Recording exists with local file at "+path, res.Reason)
	})

	t.Run("nothing found", func(t *testing.T) {
		f := newDownloadFixture(t)
		res, err := f.svc.IsFileAlreadySynced(ctx, "new.hda")
		require.NoError(t, err)
		assert.False(t, res.Synced)
	})
}

func TestProcessDownloadErrors(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProcessDownload(ctx, "missing.hda", []byte("x"))
	assert.ErrorIs(t, err, ErrFileNotInQueue)

	_, err = f.svc.QueueDownloads(ctx, files("a.hda"))
	require.NoError(t, err)
	_, err = f.svc.ProcessDownload(ctx, "a.hda", []byte("x"))
	require.NoError(t, err)

	_, err = f.svc.ProcessDownload(ctx, "a.hda", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

type failingStore struct {
	*filestore.LocalStore
}

func (s failingStore) SaveBytes(filename string, data []byte) (string, error) {
	return "", errors.New("disk full")
}

func TestProcessDownloadCapturesFailure(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()
	f.svc.files = failingStore{f.store}

	_, err := f.svc.StartSyncSession(ctx, files("a.hda"))
	require.NoError(t, err)

	res, err := f.svc.ProcessDownload(ctx, "a.hda", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "failed", res.Status)
	require.NotNil(t, res.Error)
	assert.Equal(t, "disk full", *res.Error)

	state := f.svc.GetState(ctx)
	assert.Equal(t, "failed", state.Items[0].Status)
	require.NotNil(t, state.Session)
	assert.Equal(t, 1, state.Session.Failed)
	assert.Equal(t, "completed", state.Session.Status)

	count, err := implementation.NewRecordingRepository(f.db).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateProgress(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	_, err := f.svc.QueueDownloads(ctx, &dto.QueueDownloadsRequest{Files: []dto.DeviceFileRequest{{Filename: "a.hda", Size: 200}}})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateProgress(ctx, "a.hda", &dto.UpdateProgressRequest{BytesReceived: 51}))
	assert.Equal(t, 26, f.publisher.last().Items[0].Progress)

	err = f.svc.UpdateProgress(ctx, "b.hda", &dto.UpdateProgressRequest{BytesReceived: 1})
	assert.ErrorIs(t, err, ErrFileNotInQueue)

	assert.Equal(t, 0, progressPercent(10, 0))
	assert.Equal(t, 100, progressPercent(300, 200))
}

func TestSessionCompletesWhenEveryItemHasAnOutcome(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	started, err := f.svc.StartSyncSession(ctx, files("a.hda", "b.hda"))
	require.NoError(t, err)
	assert.Equal(t, 2, started.Session.Total)
	assert.Equal(t, "active", started.Session.Status)

	_, err = f.svc.ProcessDownload(ctx, "a.hda", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "active", f.svc.GetState(ctx).Session.Status)

	require.NoError(t, f.svc.MarkFailed(ctx, "b.hda", &dto.MarkFailedRequest{Error: "usb reset"}))

	session := f.svc.GetState(ctx).Session
	assert.Equal(t, "completed", session.Status)
	assert.Equal(t, 1, session.Completed)
	assert.Equal(t, 1, session.Failed)
	assert.NotNil(t, session.CompletedAt)

	stats, err := f.svc.GetSyncStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, int64(1), stats.SyncedFiles)
}

func TestEmptySessionCompletesImmediately(t *testing.T) {
	f := newDownloadFixture(t)

	started, err := f.svc.StartSyncSession(context.Background(), &dto.QueueDownloadsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, started.Session.Total)
	assert.Equal(t, "completed", started.Session.Status)
}

func TestCancelAllAndRequeue(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartSyncSession(ctx, files("a.hda", "b.hda"))
	require.NoError(t, err)

	res := f.svc.CancelAll(ctx)
	assert.Equal(t, 2, res.Cancelled)

	state := f.svc.GetState(ctx)
	assert.True(t, state.Paused)
	assert.Equal(t, "cancelled", state.Session.Status)
	for _, item := range state.Items {
		assert.Equal(t, "failed", item.Status)
		require.NotNil(t, item.Error)
		assert.Equal(t, "Cancelled", *item.Error)
	}

	again, err := f.svc.QueueDownloads(ctx, files("a.hda"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.hda"}, again.Queued)

	state = f.svc.GetState(ctx)
	assert.False(t, state.Paused)
	assert.Equal(t, "pending", state.Items[0].Status)
	assert.Nil(t, state.Items[0].Error)
}

func TestRequeueSkipsFailedFileThatIsNowSynced(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	_, err := f.svc.QueueDownloads(ctx, files(deviceFile))
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkFailed(ctx, deviceFile, &dto.MarkFailedRequest{Error: "usb reset"}))

	require.NoError(t, implementation.NewSyncedFileRepository(f.db).Upsert(ctx, &entity.SyncedFile{
		Id: uuid.New(), OriginalFilename: deviceFile, LocalFilename: "2025May13-160405-Rec59.wav", FilePath: "/elsewhere/2025May13-160405-Rec59.wav", SyncedAt: testNow,
	}))

	again, err := f.svc.QueueDownloads(ctx, files(deviceFile))
	require.NoError(t, err)
	assert.Empty(t, again.Queued)
	require.Len(t, again.Skipped, 1)
	assert.Equal(t, "Found in synced_files as "+deviceFile, again.Skipped[0].Reason)

	state := f.svc.GetState(ctx)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "failed", state.Items[0].Status)
}

func TestPausedQueueAdmitsNoDownloads(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	_, err := f.svc.QueueDownloads(ctx, files("a.hda"))
	require.NoError(t, err)

	f.svc.mu.Lock()
	f.svc.paused = true
	f.svc.mu.Unlock()

	_, err = f.svc.ProcessDownload(ctx, "a.hda", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "pending", f.svc.GetState(ctx).Items[0].Status)
}

func TestConcurrentDownloadsOnDifferentFiles(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	const n = 12
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("2025May13-1604%02d-Rec%02d.hda", i, i)
	}

	started, err := f.svc.StartSyncSession(ctx, files(names...))
	require.NoError(t, err)
	require.Equal(t, n, started.Session.Total)

	var wg sync.WaitGroup
	errs := make(chan error, n*2)
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			if err := f.svc.UpdateProgress(ctx, name, &dto.UpdateProgressRequest{BytesReceived: 2}); err != nil {
				errs <- err
				return
			}
			// Every third file fails instead of completing.
			if i%3 == 0 {
				errs <- f.svc.MarkFailed(ctx, name, &dto.MarkFailedRequest{Error: "usb reset"})
				return
			}
			res, err := f.svc.ProcessDownload(ctx, name, []byte("audio"))
			if err == nil && res.Status != "completed" {
				err = fmt.Errorf("%s finished as %s", name, res.Status)
			}
			errs <- err
		}(i, name)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	state := f.svc.GetState(ctx)
	assert.Equal(t, "completed", state.Session.Status)
	assert.Equal(t, 8, state.Session.Completed)
	assert.Equal(t, 4, state.Session.Failed)
	require.Len(t, state.Items, n)

	byName := make(map[string]dto.DownloadQueueItemResponse, n)
	for _, item := range state.Items {
		byName[item.Filename] = item
	}
	for i, name := range names {
		if i%3 == 0 {
			assert.Equal(t, "failed", byName[name].Status, name)
			continue
		}
		assert.Equal(t, "completed", byName[name].Status, name)
		assert.Equal(t, 100, byName[name].Progress, name)
	}

	stats, err := f.svc.GetSyncStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.SyncedFiles)
}

func TestReconcileDeviceListing(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	gone := seedRecording(t, f.db, recordingFixture{filename: "old.hda", onDevice: true})
	kept := &entity.Recording{Id: hidock.RecordingID("kept.hda"), Filename: "kept.hda", DateRecorded: testNow}
	kept.SetPresence(false, true)
	require.NoError(t, implementation.NewRecordingRepository(f.db).Create(ctx, kept))

	res, err := f.svc.ReconcileDeviceListing(ctx, files("kept.hda", "new.hda", "new.wav"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.MissingFromDevice)

	assert.Equal(t, entity.LocationDeleted, findRecording(t, f.db, gone.Id).Location)
	assert.Equal(t, entity.LocationBoth, findRecording(t, f.db, kept.Id).Location)

	created := findRecording(t, f.db, hidock.RecordingID("new.hda"))
	assert.Equal(t, entity.LocationDeviceOnly, created.Location)
	assert.NotNil(t, created.DeviceLastSeen)
}

func TestResetSyncState(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	present, err := f.store.SaveBytes("present.wav", []byte("1"))
	require.NoError(t, err)
	missing := f.store.PathFor("missing.wav")
	require.NoFileExists(t, missing)

	ok := seedRecording(t, f.db, recordingFixture{filename: "present.hda", onLocal: true, filePath: &present})
	lost := seedRecording(t, f.db, recordingFixture{filename: "missing.hda", onDevice: true, onLocal: true, filePath: &missing})

	_, err = f.svc.QueueDownloads(ctx, files("a.hda"))
	require.NoError(t, err)

	res, err := f.svc.ResetSyncState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.RecordingsReset)
	assert.Equal(t, 1, res.QueueItemsReset)
	assert.Empty(t, f.svc.GetState(ctx).Items)

	assert.True(t, findRecording(t, f.db, ok.Id).OnLocal)
	reset := findRecording(t, f.db, lost.Id)
	assert.False(t, reset.OnLocal)
	assert.Nil(t, reset.FilePath)
	assert.Equal(t, entity.LocationDeviceOnly, reset.Location)

	_, statErr := os.Stat(present)
	assert.NoError(t, statErr)
}
