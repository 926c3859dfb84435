package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.quality.assessed", Subject(events.TypeQualityAssessed))
	assert.Equal(t, "events.storage.tier-assigned", Subject(events.TypeStorageTierAssigned))
	assert.Equal(t, "events.storage.cleanup-suggested", Subject(events.TypeStorageCleanupSuggested))
}

func TestEncode(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	data, err := encode(events.QualityAssessed{RecordingId: id, Quality: "low", OccurredAt: at})
	require.NoError(t, err)

	var got envelope
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, events.TypeQualityAssessed, got.Type)
	assert.True(t, at.Equal(got.OccurredAt))
	assert.Equal(t, id.String(), got.Data["recording_id"])
}
