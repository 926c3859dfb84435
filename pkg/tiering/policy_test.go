package tiering

import (
	"testing"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		level quality.Level
		want  Tier
	}{
		{quality.LevelHigh, TierHot},
		{quality.LevelMedium, TierWarm},
		{quality.LevelLow, TierCold},
	}
	for _, tt := range tests {
		got, ok := TierFor(tt.level)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}

	_, ok := TierFor(quality.Level("unknown"))
	assert.False(t, ok)
}

func TestNext(t *testing.T) {
	next, ok := Next(TierHot)
	assert.True(t, ok)
	assert.Equal(t, TierWarm, next)

	next, ok = Next(TierCold)
	assert.True(t, ok)
	assert.Equal(t, TierArchive, next)

	_, ok = Next(TierArchive)
	assert.False(t, ok)

	_, ok = Next(Tier("lukewarm"))
	assert.False(t, ok)
}

func TestRetentionWith(t *testing.T) {
	base := DefaultRetention()
	got := base.With(map[Tier]int{TierHot: 30, TierCold: 0, Tier("bogus"): 5})

	assert.Equal(t, 30, got[TierHot])
	assert.Equal(t, 90, got[TierCold], "non-positive overrides are ignored")
	assert.NotContains(t, got, Tier("bogus"))
	assert.Equal(t, 365, base[TierHot], "defaults are not mutated")
}

func TestCutoffAndReason(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := DefaultRetention()

	assert.Equal(t, now.AddDate(0, 0, -365), r.Cutoff(TierHot, now))

	recorded := now.AddDate(0, 0, -400)
	age := AgeInDays(recorded, now)
	assert.Equal(t, 400, age)
	assert.Equal(t, "Exceeds hot tier retention (365 days) by 35 days", ExceedsReason(TierHot, 365, age))
}
