package config

import (
	"testing"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"
	"github.com/sgeraldes/hidock-next-sub000/pkg/quality"
	"github.com/sgeraldes/hidock-next-sub000/pkg/tiering"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, correlation.DefaultConfig(), cfg.CorrelationPolicy())
	assert.Equal(t, quality.DefaultConfig(), cfg.QualityPolicy())
	assert.Equal(t, tiering.DefaultRetention(), cfg.RetentionPolicy())
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "download.state", cfg.Sync.StateTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CORRELATION_WINDOW_PADDING_MINUTES", "45")
	t.Setenv("CORRELATION_SELECTION_THRESHOLD", "0.6")
	t.Setenv("RETENTION_HOT_DAYS", "400")
	t.Setenv("RETENTION_COLD_DAYS", "not-a-number")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg := Load()

	policy := cfg.CorrelationPolicy()
	assert.Equal(t, 45*time.Minute, policy.WindowPadding)
	assert.Equal(t, 0.6, policy.SelectionThreshold)

	retention := cfg.RetentionPolicy()
	assert.Equal(t, 400, retention[tiering.TierHot])
	assert.Equal(t, 90, retention[tiering.TierCold])

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
