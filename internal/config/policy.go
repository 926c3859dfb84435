package config

import (
	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"
)

// CorrelationPolicy overlays the configured values on the default heuristics.
func (c *Config) CorrelationPolicy() correlation.Config {
	p := correlation.DefaultConfig()
	p.WindowPadding = minutes(c.Correlation.WindowPaddingMinutes)
	p.DefaultDuration = minutes(c.Correlation.DefaultDurationMinutes)
	p.ProximityLimit = minutes(c.Correlation.ProximityLimitMinutes)
	p.OverlapConfidence = c.Correlation.OverlapConfidence
	p.ProximityBase = c.Correlation.ProximityBase
	p.ProximityDecay = c.Correlation.ProximityDecay
	p.SelectionThreshold = c.Correlation.SelectionThreshold
	p.DurationMatchMargin = seconds(c.Correlation.DurationMatchSeconds)
	return p
}

func (c *Config) QualityPolicy() quality.Config {
	p := quality.DefaultConfig()
	p.HighThreshold = c.Quality.HighThreshold
	p.MediumThreshold = c.Quality.MediumThreshold
	p.DefaultConfidence = c.Quality.DefaultConfidence
	return p
}

func (c *Config) RetentionPolicy() tiering.Retention {
	return tiering.DefaultRetention().With(map[tiering.Tier]int{
		tiering.TierHot:     c.Retention.HotDays,
		tiering.TierWarm:    c.Retention.WarmDays,
		tiering.TierCold:    c.Retention.ColdDays,
		tiering.TierArchive: c.Retention.ArchiveDays,
	})
}
