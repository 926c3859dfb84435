package service

import (
	"context"
	"testing"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func newStorageService(t *testing.T, factory unitofwork.RepositoryFactory, emitter EventEmitter) (*storagePolicyService, *filestore.LocalStore) {
	t.Helper()
	store, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := NewStoragePolicyService(factory, tiering.DefaultRetention(), store, emitter, logger.NewNopLogger()).(*storagePolicyService)
	svc.now = fixedClock
	return svc, store
}

func TestTierPolicyThroughEventBus(t *testing.T) {
	factory, db := newTestFactory(t)
	bus := events.NewBus()

	storage, _ := newStorageService(t, factory, bus)
	storage.Register(bus)
	qualitySvc := newQualityService(factory, bus)

	var assigned []events.TierAssigned
	bus.Subscribe(events.TypeStorageTierAssigned, func(ctx context.Context, e events.Event) error {
		assigned = append(assigned, e.(events.TierAssigned))
		return nil
	})

	r := seedRecording(t, db, recordingFixture{filename: "a.hda"})
	ctx := context.Background()

	_, err := qualitySvc.AssessQuality(ctx, &dto.AssessQualityRequest{RecordingId: r.Id, Quality: "high"})
	require.NoError(t, err)
	assert.Equal(t, tiering.TierHot, findRecording(t, db, r.Id).Tier())

	_, err = qualitySvc.AssessQuality(ctx, &dto.AssessQualityRequest{RecordingId: r.Id, Quality: "low"})
	require.NoError(t, err)
	assert.Equal(t, tiering.TierCold, findRecording(t, db, r.Id).Tier())

	require.Len(t, assigned, 2)
	assert.Equal(t, "hot", assigned[0].Tier)
	assert.Nil(t, assigned[0].PreviousTier)
	assert.Equal(t, "cold", assigned[1].Tier)
	require.NotNil(t, assigned[1].PreviousTier)
	assert.Equal(t, "hot", *assigned[1].PreviousTier)
}

func TestAssignTier(t *testing.T) {
	factory, db := newTestFactory(t)
	svc, _ := newStorageService(t, factory, &recordedEvents{})
	r := seedRecording(t, db, recordingFixture{filename: "a.hda"})
	ctx := context.Background()

	res, err := svc.AssignTier(ctx, r.Id, &dto.AssignTierRequest{Quality: "medium"})
	require.NoError(t, err)
	assert.Equal(t, "warm", res.Tier)
	assert.Nil(t, res.PreviousTier)

	_, err = svc.AssignTier(ctx, r.Id, &dto.AssignTierRequest{Quality: "superb"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AssignTier(ctx, uuid.New(), &dto.AssignTierRequest{Quality: "high"})
	assert.ErrorIs(t, err, ErrRecordingNotFound)

	warm, err := svc.GetByTier(ctx, "warm")
	require.NoError(t, err)
	require.Len(t, warm, 1)
	assert.Equal(t, r.Id, warm[0].Id)

	_, err = svc.GetByTier(ctx, "lukewarm")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCleanupEligibilityScenario(t *testing.T) {
	factory, db := newTestFactory(t)
	emitted := &recordedEvents{}
	svc, _ := newStorageService(t, factory, emitted)
	qualitySvc := newQualityService(factory, emitted)
	ctx := context.Background()

	old := seedRecording(t, db, recordingFixture{filename: "old.hda", recordedAt: daysAgo(400), storageTier: strPtr("hot"), meetingId: strPtr("m1")})
	seedTranscript(t, db, old.Id, 10, nil)
	_, err := qualitySvc.AssessQuality(ctx, &dto.AssessQualityRequest{RecordingId: old.Id, Quality: "high"})
	require.NoError(t, err)

	seedRecording(t, db, recordingFixture{filename: "recent.hda", recordedAt: daysAgo(100), storageTier: strPtr("hot")})
	cold := seedRecording(t, db, recordingFixture{filename: "cold.hda", recordedAt: daysAgo(100), storageTier: strPtr("cold")})
	seedRecording(t, db, recordingFixture{filename: "untiered.hda", recordedAt: daysAgo(1000)})

	suggestions, err := svc.GetCleanupSuggestions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	first := suggestions[0]
	assert.Equal(t, old.Id, first.RecordingId)
	assert.Equal(t, "Exceeds hot tier retention (365 days) by 35 days", first.Reason)
	assert.Equal(t, 400, first.AgeInDays)
	assert.True(t, first.HasTranscript)
	assert.True(t, first.HasMeeting)
	require.NotNil(t, first.Quality)
	assert.Equal(t, "high", *first.Quality)

	assert.Equal(t, cold.Id, suggestions[1].RecordingId)
	assert.Equal(t, "Exceeds cold tier retention (90 days) by 10 days", suggestions[1].Reason)
	assert.Nil(t, suggestions[1].Quality)

	overridden, err := svc.GetCleanupSuggestionsForTier(ctx, "hot", &dto.RetentionOverrides{HotDays: 30})
	require.NoError(t, err)
	assert.Len(t, overridden, 2)
	assert.Equal(t, 30, overridden[0].RetentionDays)
}

func TestExecuteCleanupDelete(t *testing.T) {
	factory, db := newTestFactory(t)
	emitted := &recordedEvents{}
	svc, store := newStorageService(t, factory, emitted)
	ctx := context.Background()

	path, err := store.SaveBytes("a.wav", []byte("audio"))
	require.NoError(t, err)
	local := seedRecording(t, db, recordingFixture{filename: "a.hda", onDevice: true, onLocal: true, filePath: &path, storageTier: strPtr("cold")})
	deviceOnly := seedRecording(t, db, recordingFixture{filename: "b.hda", onDevice: true})
	missing := uuid.New()

	res, err := svc.ExecuteCleanup(ctx, &dto.ExecuteCleanupRequest{RecordingIds: []uuid.UUID{local.Id, deviceOnly.Id, missing}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{local.Id}, res.Deleted)
	assert.Empty(t, res.Archived)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "no local copy to delete", res.Failed[0].Reason)
	assert.Equal(t, "recording not found", res.Failed[1].Reason)

	assert.NoFileExists(t, path)
	updated := findRecording(t, db, local.Id)
	assert.False(t, updated.OnLocal)
	assert.Nil(t, updated.FilePath)
	assert.Equal(t, entity.LocationDeviceOnly, updated.Location)

	require.Len(t, emitted.events, 1)
	audit := emitted.events[0].(events.CleanupSuggested)
	assert.Equal(t, []uuid.UUID{local.Id}, audit.RecordingIds)
	assert.Equal(t, "cold", audit.Tier)
}

func TestExecuteCleanupArchive(t *testing.T) {
	factory, db := newTestFactory(t)
	emitted := &recordedEvents{}
	svc, _ := newStorageService(t, factory, emitted)
	ctx := context.Background()

	cold := seedRecording(t, db, recordingFixture{filename: "a.hda", storageTier: strPtr("cold")})
	archived := seedRecording(t, db, recordingFixture{filename: "b.hda", storageTier: strPtr("archive")})

	res, err := svc.ExecuteCleanup(ctx, &dto.ExecuteCleanupRequest{RecordingIds: []uuid.UUID{cold.Id, archived.Id}, Archive: true})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{cold.Id}, res.Archived)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, archived.Id, res.Failed[0].Id)
	assert.Equal(t, tiering.TierArchive, findRecording(t, db, cold.Id).Tier())

	require.Len(t, emitted.events, 2)
	assert.Equal(t, events.TypeStorageTierAssigned, emitted.events[0].EventType())
	assert.Equal(t, events.TypeStorageCleanupSuggested, emitted.events[1].EventType())
}

func TestExecuteCleanupArchiveRejectsUntiered(t *testing.T) {
	factory, db := newTestFactory(t)
	emitted := &recordedEvents{}
	svc, _ := newStorageService(t, factory, emitted)

	untiered := seedRecording(t, db, recordingFixture{filename: "a.hda"})

	res, err := svc.ExecuteCleanup(context.Background(), &dto.ExecuteCleanupRequest{RecordingIds: []uuid.UUID{untiered.Id}, Archive: true})
	require.NoError(t, err)
	assert.Empty(t, res.Archived)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "recording has no storage tier", res.Failed[0].Reason)
	assert.Nil(t, findRecording(t, db, untiered.Id).StorageTier)
	assert.Empty(t, emitted.events)
}

func TestExecuteCleanupWithNothingDoneEmitsNothing(t *testing.T) {
	factory, _ := newTestFactory(t)
	emitted := &recordedEvents{}
	svc, _ := newStorageService(t, factory, emitted)

	res, err := svc.ExecuteCleanup(context.Background(), &dto.ExecuteCleanupRequest{RecordingIds: []uuid.UUID{uuid.New()}})
	require.NoError(t, err)
	assert.Len(t, res.Failed, 1)
	assert.Empty(t, emitted.events)
}

func TestStorageStatsAndInitializeUntiered(t *testing.T) {
	factory, db := newTestFactory(t)
	svc, _ := newStorageService(t, factory, &recordedEvents{})
	qualitySvc := newQualityService(factory, &recordedEvents{})
	ctx := context.Background()

	seedRecording(t, db, recordingFixture{filename: "hot.hda", size: 100, storageTier: strPtr("hot")})
	low := seedRecording(t, db, recordingFixture{filename: "low.hda", size: 10})
	seedRecording(t, db, recordingFixture{filename: "none.hda", size: 1})
	_, err := qualitySvc.AssessQuality(ctx, &dto.AssessQualityRequest{RecordingId: low.Id, Quality: string(quality.LevelLow)})
	require.NoError(t, err)

	stats, err := svc.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRecordings)
	assert.Equal(t, int64(111), stats.TotalSize)
	assert.Equal(t, int64(2), stats.Untiered.Count)
	require.Len(t, stats.Tiers, 4)
	assert.Equal(t, dto.TierStats{Tier: "hot", Count: 1, TotalSize: 100}, stats.Tiers[0])

	res, err := svc.InitializeUntieredRecordings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Initialized)
	assert.Equal(t, map[string]int{"cold": 1, "warm": 1}, res.ByTier)
	assert.Equal(t, tiering.TierCold, findRecording(t, db, low.Id).Tier())

	stats, err = svc.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Untiered.Count)
}
