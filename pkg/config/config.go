package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Snapshot  SnapshotConfig
	Grading   GradingConfig
	Dashboard DashboardConfig
	Advisor   AdvisorConfig
	Reports   ReportsConfig
	Tracing   TracingConfig
}

type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
	// OpTimeout bounds each read and write; zero keeps the client default.
	OpTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SnapshotConfig points at the academic record source loaded at startup.
type SnapshotConfig struct {
	Path string
}

// GradingConfig describes the grading scale used to flag unreachable targets.
type GradingConfig struct {
	ScaleMax float64
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// AdvisorConfig configures the generative-language advisory collaborator.
type AdvisorConfig struct {
	Enabled         bool
	APIKey          string
	BaseURL         string
	AnalysisModel   string
	ChatModel       string
	Timeout         time.Duration
	CacheTTL        time.Duration
	MaxChatSessions int
	MaxChatTurns    int
	BreakerFailures int
	BreakerCooldown time.Duration
}

// ReportsConfig toggles standing report exports and the background job pipeline.
type ReportsConfig struct {
	Enabled           bool
	JobsEnabled       bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	ResultTTL         time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
	RetryDelay        time.Duration
	QueueSize         int
	MaxJobs           int
}

// TracingConfig toggles OTLP trace export.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Redis = RedisConfig{
		Enabled:     v.GetBool("REDIS_ENABLED"),
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
		OpTimeout:   parseDuration(v.GetString("REDIS_OP_TIMEOUT"), time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Snapshot = SnapshotConfig{Path: v.GetString("SNAPSHOT_PATH")}

	scaleMax := v.GetFloat64("GRADE_SCALE_MAX")
	if scaleMax <= 0 {
		scaleMax = 10
	}
	cfg.Grading = GradingConfig{ScaleMax: scaleMax}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	apiKey := v.GetString("ADVISOR_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("API_KEY")
	}
	cfg.Advisor = AdvisorConfig{
		Enabled:         v.GetBool("ENABLE_ADVISOR"),
		APIKey:          apiKey,
		BaseURL:         strings.TrimRight(v.GetString("ADVISOR_BASE_URL"), "/"),
		AnalysisModel:   v.GetString("ADVISOR_ANALYSIS_MODEL"),
		ChatModel:       v.GetString("ADVISOR_CHAT_MODEL"),
		Timeout:         parseDuration(v.GetString("ADVISOR_TIMEOUT"), 20*time.Second),
		CacheTTL:        parseDuration(v.GetString("ADVISOR_CACHE_TTL"), 10*time.Minute),
		MaxChatSessions: v.GetInt("ADVISOR_MAX_CHAT_SESSIONS"),
		MaxChatTurns:    v.GetInt("ADVISOR_MAX_CHAT_TURNS"),
		BreakerFailures: v.GetInt("ADVISOR_BREAKER_FAILURES"),
		BreakerCooldown: parseDuration(v.GetString("ADVISOR_BREAKER_COOLDOWN"), 30*time.Second),
	}

	cfg.Reports = ReportsConfig{
		Enabled:           v.GetBool("ENABLE_REPORTS"),
		JobsEnabled:       v.GetBool("ENABLE_REPORT_JOBS"),
		StorageDir:        v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		ResultTTL:         parseDuration(v.GetString("REPORTS_RESULT_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORTS_WORKER_RETRIES"),
		RetryDelay:        parseDuration(v.GetString("REPORTS_RETRY_DELAY"), 2*time.Second),
		QueueSize:         v.GetInt("REPORTS_QUEUE_SIZE"),
		MaxJobs:           v.GetInt("REPORTS_MAX_JOBS"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:     v.GetBool("ENABLE_TRACING"),
		Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName: v.GetString("OTEL_SERVICE_NAME"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_OP_TIMEOUT", "1s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SNAPSHOT_PATH", "")
	v.SetDefault("GRADE_SCALE_MAX", 10)

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_ADVISOR", false)
	v.SetDefault("ADVISOR_API_KEY", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("ADVISOR_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("ADVISOR_ANALYSIS_MODEL", "gemini-3-flash-preview")
	v.SetDefault("ADVISOR_CHAT_MODEL", "gemini-3-pro-preview")
	v.SetDefault("ADVISOR_TIMEOUT", "20s")
	v.SetDefault("ADVISOR_CACHE_TTL", "10m")
	v.SetDefault("ADVISOR_MAX_CHAT_SESSIONS", 100)
	v.SetDefault("ADVISOR_MAX_CHAT_TURNS", 40)
	v.SetDefault("ADVISOR_BREAKER_FAILURES", 5)
	v.SetDefault("ADVISOR_BREAKER_COOLDOWN", "30s")

	v.SetDefault("ENABLE_REPORTS", true)
	v.SetDefault("ENABLE_REPORT_JOBS", false)
	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_RESULT_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORTS_WORKER_RETRIES", 3)
	v.SetDefault("REPORTS_RETRY_DELAY", "2s")
	v.SetDefault("REPORTS_QUEUE_SIZE", 16)
	v.SetDefault("REPORTS_MAX_JOBS", 200)

	v.SetDefault("ENABLE_TRACING", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "sma-pulse-api")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
