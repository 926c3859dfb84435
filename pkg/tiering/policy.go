// Package tiering maps quality levels to storage tiers and decides when a
// recording has outlived its tier's retention.
package tiering

import (
	"fmt"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
)

type Tier string

const (
	TierHot     Tier = "hot"
	TierWarm    Tier = "warm"
	TierCold    Tier = "cold"
	TierArchive Tier = "archive"
)

// Order is the fixed demotion order, highest tier first.
var Order = []Tier{TierHot, TierWarm, TierCold, TierArchive}

func (t Tier) Valid() bool {
	switch t {
	case TierHot, TierWarm, TierCold, TierArchive:
		return true
	}
	return false
}

// DefaultTier is used for recordings that were never assessed.
const DefaultTier = TierWarm

var qualityTiers = map[quality.Level]Tier{
	quality.LevelHigh:   TierHot,
	quality.LevelMedium: TierWarm,
	quality.LevelLow:    TierCold,
}

// TierFor returns the storage tier assigned to a quality level.
func TierFor(level quality.Level) (Tier, bool) {
	t, ok := qualityTiers[level]
	return t, ok
}

// Next returns the tier one step below t. The boolean is false at the bottom.
func Next(t Tier) (Tier, bool) {
	for i, tier := range Order {
		if tier == t && i+1 < len(Order) {
			return Order[i+1], true
		}
	}
	return "", false
}

// Retention is the number of days a recording may stay in each tier.
type Retention map[Tier]int

func DefaultRetention() Retention {
	return Retention{
		TierHot:     365,
		TierWarm:    180,
		TierCold:    90,
		TierArchive: 30,
	}
}

// With returns a copy of r with overrides applied. Non-positive overrides are ignored.
func (r Retention) With(overrides map[Tier]int) Retention {
	out := make(Retention, len(r))
	for t, days := range r {
		out[t] = days
	}
	for t, days := range overrides {
		if t.Valid() && days > 0 {
			out[t] = days
		}
	}
	return out
}

// Cutoff is the instant before which recordings in tier t are cleanup-eligible.
func (r Retention) Cutoff(t Tier, now time.Time) time.Time {
	return now.AddDate(0, 0, -r[t])
}

// AgeInDays returns whole days elapsed since recordedAt.
func AgeInDays(recordedAt, now time.Time) int {
	return int(now.Sub(recordedAt).Hours() / 24)
}

// ExceedsReason renders the human-readable cleanup reason.
func ExceedsReason(t Tier, retentionDays, ageInDays int) string {
	return fmt.Sprintf("Exceeds %s tier retention (%d days) by %d days", t, retentionDays, ageInDays-retentionDays)
}
