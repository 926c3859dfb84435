package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/implementation"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/pkg/database"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestFactory(t *testing.T) (unitofwork.RepositoryFactory, *gorm.DB) {
	db := newTestDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}

type fakeStatePublisher struct {
	mu     sync.Mutex
	states []*dto.DownloadQueueState
}

func (f *fakeStatePublisher) PublishQueueState(ctx context.Context, state *dto.DownloadQueueState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, state)
	return nil
}

func (f *fakeStatePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.states)
}

func (f *fakeStatePublisher) last() *dto.DownloadQueueState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[len(f.states)-1]
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

type recordingFixture struct {
	filename    string
	size        int64
	duration    *float64
	recordedAt  time.Time
	onDevice    bool
	onLocal     bool
	filePath    *string
	meetingId   *string
	method      *string
	confidence  *float64
	storageTier *string
}

func seedRecording(t *testing.T, db *gorm.DB, f recordingFixture) *entity.Recording {
	t.Helper()
	if f.recordedAt.IsZero() {
		f.recordedAt = testNow.Add(-24 * time.Hour)
	}
	r := &entity.Recording{
		Id:                    uuid.NewSHA1(uuid.NameSpaceURL, []byte(f.filename)),
		Filename:              f.filename,
		FileSize:              f.size,
		DurationSeconds:       f.duration,
		DateRecorded:          f.recordedAt,
		FilePath:              f.filePath,
		MeetingId:             f.meetingId,
		CorrelationMethod:     f.method,
		CorrelationConfidence: f.confidence,
		TranscriptionStatus:   entity.TranscriptionNone,
		CreatedAt:             testNow,
	}
	if f.storageTier != nil {
		tier := tiering.Tier(*f.storageTier)
		r.StorageTier = &tier
	}
	r.SetPresence(f.onDevice, f.onLocal)
	require.NoError(t, implementation.NewRecordingRepository(db).Create(context.Background(), r))
	return r
}

func seedMeeting(t *testing.T, db *gorm.DB, id string, start, end time.Time) *entity.Meeting {
	t.Helper()
	m := &entity.Meeting{Id: id, Subject: "Meeting " + id, StartTime: start, EndTime: end}
	require.NoError(t, implementation.NewMeetingRepository(db).Create(context.Background(), m))
	return m
}

func seedTranscript(t *testing.T, db *gorm.DB, recordingId uuid.UUID, words int, summary *string) {
	t.Helper()
	require.NoError(t, implementation.NewTranscriptRepository(db).Create(context.Background(), &entity.Transcript{
		Id:          uuid.New(),
		RecordingId: recordingId,
		FullText:    "text",
		Summary:     summary,
		WordCount:   words,
		CreatedAt:   testNow,
	}))
}

func findRecording(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Recording {
	t.Helper()
	r, err := implementation.NewRecordingRepository(db).FindOne(context.Background(), specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}
