package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/serverutils"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/memory"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"
	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"
	"github.com/sgeraldes/hidock-next-sub000/pkg/database"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	store, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	uowFactory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()
	bus := events.NewBus()

	downloadService := service.NewDownloadService(uowFactory, memory.NewDownloadQueueRepository(), store,
		service.NewStatePublisher("download.state", pubSub), log)
	correlationService := service.NewCorrelationService(uowFactory, correlation.DefaultConfig(), log)
	qualityService := service.NewQualityService(uowFactory, quality.DefaultConfig(), bus, log)
	storageService := service.NewStoragePolicyService(uowFactory, tiering.DefaultRetention(), store, bus, log)
	storageService.Register(bus)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(ErrorStatuses))
	api := app.Group("/api")
	NewSyncController(downloadService, log).RegisterRoutes(api)
	NewCorrelationController(correlationService).RegisterRoutes(api)
	NewQualityController(qualityService).RegisterRoutes(api)
	NewStorageController(storageService).RegisterRoutes(api)
	return app
}

func doJSON[T any](t *testing.T, app *fiber.App, method, path string, body interface{}) (int, serverutils.BaseResponse[T]) {
	t.Helper()

	var reader io.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if _, ok := body.([]byte); !ok && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

const deviceFile = "2025May13-101500-Rec01.hda"

func TestSyncFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, queued := doJSON[dto.QueueDownloadsResponse](t, app, "POST", "/api/sync/v1/queue", dto.QueueDownloadsRequest{
		Files: []dto.DeviceFileRequest{{Filename: deviceFile, Size: 5}},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{deviceFile}, queued.Data.Queued)

	status, processed := doJSON[dto.ProcessDownloadResponse](t, app, "POST", "/api/sync/v1/files/"+deviceFile, []byte("audio"))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "completed", processed.Data.Status)

	status, check := doJSON[dto.SyncCheckResponse](t, app, "GET", "/api/sync/v1/check/"+deviceFile, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, check.Data.Synced)

	status, state := doJSON[dto.DownloadQueueState](t, app, "GET", "/api/sync/v1/state", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, state.Data.Items, 1)
	assert.Equal(t, 100, state.Data.Items[0].Progress)

	status, cleared := doJSON[dto.ClearCompletedResponse](t, app, "DELETE", "/api/sync/v1/completed", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, cleared.Data.Cleared)
}

func TestSyncErrorsMapToStatuses(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON[any](t, app, "PUT", "/api/sync/v1/files/missing.hda/progress", dto.UpdateProgressRequest{BytesReceived: 1})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, body.Success)

	status, _ = doJSON[any](t, app, "POST", "/api/sync/v1/queue", map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	doJSON[dto.QueueDownloadsResponse](t, app, "POST", "/api/sync/v1/queue", dto.QueueDownloadsRequest{
		Files: []dto.DeviceFileRequest{{Filename: deviceFile, Size: 5}},
	})
	doJSON[dto.ProcessDownloadResponse](t, app, "POST", "/api/sync/v1/files/"+deviceFile, []byte("audio"))

	status, _ = doJSON[any](t, app, "POST", "/api/sync/v1/files/"+deviceFile, []byte("again"))
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestQualityAndStorageOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, reconciled := doJSON[dto.ReconcileDeviceListingResponse](t, app, "POST", "/api/sync/v1/reconcile", dto.QueueDownloadsRequest{
		Files: []dto.DeviceFileRequest{{Filename: deviceFile, Size: 5}},
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 1, reconciled.Data.Created)

	status, low := doJSON[[]dto.RecordingResponse](t, app, "GET", "/api/storage/v1/tiers/warm/recordings", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, low.Data)

	status, initialized := doJSON[dto.InitializeUntieredResponse](t, app, "POST", "/api/storage/v1/initialize-untiered", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, initialized.Data.Initialized)

	status, warm := doJSON[[]dto.RecordingResponse](t, app, "GET", "/api/storage/v1/tiers/warm/recordings", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, warm.Data, 1)
	id := warm.Data[0].Id

	status, assessed := doJSON[dto.QualityAssessmentResponse](t, app, "POST", "/api/quality/v1/assess", dto.AssessQualityRequest{
		RecordingId: id, Quality: "high",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "high", assessed.Data.Quality)

	status, hot := doJSON[[]dto.RecordingResponse](t, app, "GET", "/api/storage/v1/tiers/hot/recordings", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, hot.Data, 1, "the bus moves the recording to hot")

	status, _ = doJSON[any](t, app, "POST", "/api/quality/v1/assess", dto.AssessQualityRequest{RecordingId: id, Quality: "superb"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON[any](t, app, "GET", "/api/quality/v1/recordings/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON[any](t, app, "GET", "/api/quality/v1/recordings/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, suggestions := doJSON[[]dto.CleanupSuggestionResponse](t, app, "GET", "/api/storage/v1/cleanup-suggestions?hot_days=1", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotNil(t, suggestions.Data)
}

func TestCorrelationRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON[any](t, app, "POST", "/api/correlation/v1/recordings/"+uuid.NewString()+"/correlate", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := doJSON[dto.CorrelateUnlinkedResponse](t, app, "POST", "/api/correlation/v1/correlate-unlinked", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, body.Data.Processed)

	status, _ = doJSON[any](t, app, "POST", "/api/correlation/v1/candidates", dto.AddCandidateRequest{RecordingId: uuid.New()})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
