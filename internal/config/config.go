package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Sync        SyncConfig
	Correlation CorrelationConfig
	Quality     QualityConfig
	Retention   RetentionConfig
	Auth        AuthConfig
	Telemetry   TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SyncLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type StorageConfig struct {
	RecordingsDir string
}

type SyncConfig struct {
	StateTopic string
}

type CorrelationConfig struct {
	WindowPaddingMinutes   int
	DefaultDurationMinutes int
	ProximityLimitMinutes  int
	OverlapConfidence      float64
	ProximityBase          float64
	ProximityDecay         float64
	SelectionThreshold     float64
	DurationMatchSeconds   float64
}

type QualityConfig struct {
	HighThreshold     int
	MediumThreshold   int
	DefaultConfidence float64
}

type RetentionConfig struct {
	HotDays     int
	WarmDays    int
	ColdDays    int
	ArchiveDays int
}

type AuthConfig struct {
	JwtSecret string
}

type TelemetryConfig struct {
	Enabled      bool
	OtlpEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			SyncLogFilePath:    getEnv("SYNC_LOG_FILE_PATH", "sync.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			RecordingsDir: getEnv("RECORDINGS_DIR", "./recordings"),
		},
		Sync: SyncConfig{
			StateTopic: getEnv("SYNC_STATE_TOPIC", "download.state"),
		},
		Correlation: CorrelationConfig{
			WindowPaddingMinutes:   getEnvAsInt("CORRELATION_WINDOW_PADDING_MINUTES", 30),
			DefaultDurationMinutes: getEnvAsInt("CORRELATION_DEFAULT_DURATION_MINUTES", 30),
			ProximityLimitMinutes:  getEnvAsInt("CORRELATION_PROXIMITY_LIMIT_MINUTES", 15),
			OverlapConfidence:      getEnvAsFloat("CORRELATION_OVERLAP_CONFIDENCE", 0.90),
			ProximityBase:          getEnvAsFloat("CORRELATION_PROXIMITY_BASE", 0.70),
			ProximityDecay:         getEnvAsFloat("CORRELATION_PROXIMITY_DECAY", 0.30),
			SelectionThreshold:     getEnvAsFloat("CORRELATION_SELECTION_THRESHOLD", 0.50),
			DurationMatchSeconds:   getEnvAsFloat("CORRELATION_DURATION_MATCH_SECONDS", 300),
		},
		Quality: QualityConfig{
			HighThreshold:     getEnvAsInt("QUALITY_HIGH_THRESHOLD", 70),
			MediumThreshold:   getEnvAsInt("QUALITY_MEDIUM_THRESHOLD", 40),
			DefaultConfidence: getEnvAsFloat("QUALITY_DEFAULT_CONFIDENCE", 0.7),
		},
		Retention: RetentionConfig{
			HotDays:     getEnvAsInt("RETENTION_HOT_DAYS", 365),
			WarmDays:    getEnvAsInt("RETENTION_WARM_DAYS", 180),
			ColdDays:    getEnvAsInt("RETENTION_COLD_DAYS", 90),
			ArchiveDays: getEnvAsInt("RETENTION_ARCHIVE_DAYS", 30),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OtlpEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "hidock-recording-engine"),
		},
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func seconds(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
