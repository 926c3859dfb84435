package entity

import (
	"testing"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"
	"github.com/stretchr/testify/assert"
)

func TestDeriveLocation(t *testing.T) {
	assert.Equal(t, LocationBoth, DeriveLocation(true, true))
	assert.Equal(t, LocationDeviceOnly, DeriveLocation(true, false))
	assert.Equal(t, LocationLocalOnly, DeriveLocation(false, true))
	assert.Equal(t, LocationDeleted, DeriveLocation(false, false))
}

func TestRecordingSetPresence(t *testing.T) {
	r := &Recording{}
	r.SetPresence(true, false)
	assert.Equal(t, LocationDeviceOnly, r.Location)

	r.SetPresence(true, true)
	assert.Equal(t, LocationBoth, r.Location)
	assert.Equal(t, tiering.TierWarm, r.Tier())

	cold := tiering.TierCold
	r.StorageTier = &cold
	assert.Equal(t, tiering.TierCold, r.Tier())
}

func TestSyncSessionFinish(t *testing.T) {
	now := time.Now()
	s := &SyncSession{Total: 2, Status: SessionActive}

	s.Completed = 1
	assert.False(t, s.Finish(now))

	s.Failed = 1
	assert.True(t, s.Finish(now))
	assert.Equal(t, SessionCompleted, s.Status)
	assert.False(t, s.Finish(now), "already finished")
}
