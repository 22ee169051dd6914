package config

import (
	"errors"
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
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Proctoring    ProctoringConfig
	Notifications NotificationConfig
	Metrics       MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ProctoringConfig carries the matching policy weights and switches.
type ProctoringConfig struct {
	ConsecutivePenalty     float64
	ProgramMixPenalty      float64
	DepartmentPenalty      float64
	RosterDepartmentFactor float64
	WorkloadWeight         float64
	GraduateCourseLevel    int
	NoMixPrograms          bool
	BlockSameDay           bool
	PendingLeaveBlocks     bool
	MaxWorkload            float64
	LockTTL                time.Duration
}

// NotificationConfig sizes the background writer for notification records.
type NotificationConfig struct {
	Workers int
	Retries int
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool
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

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Proctoring = ProctoringConfig{
		ConsecutivePenalty:     nonNegative(v.GetFloat64("PROCTOR_CONSECUTIVE_PENALTY"), 500),
		ProgramMixPenalty:      nonNegative(v.GetFloat64("PROCTOR_PROGRAM_MIX_PENALTY"), 1000),
		DepartmentPenalty:      nonNegative(v.GetFloat64("PROCTOR_DEPARTMENT_PENALTY"), 2000),
		RosterDepartmentFactor: nonNegative(v.GetFloat64("PROCTOR_ROSTER_DEPARTMENT_FACTOR"), 0),
		WorkloadWeight:         nonNegative(v.GetFloat64("PROCTOR_WORKLOAD_WEIGHT"), 10),
		GraduateCourseLevel:    v.GetInt("PROCTOR_GRADUATE_COURSE_LEVEL"),
		NoMixPrograms:          v.GetBool("PROCTOR_NO_MIX_PROGRAMS"),
		BlockSameDay:           v.GetBool("PROCTOR_BLOCK_SAME_DAY"),
		PendingLeaveBlocks:     v.GetBool("PROCTOR_PENDING_LEAVE_BLOCKS"),
		MaxWorkload:            nonNegative(v.GetFloat64("PROCTOR_MAX_WORKLOAD"), 0),
		LockTTL:                parseDuration(v.GetString("PROCTOR_LOCK_TTL"), 15*time.Second),
	}

	cfg.Notifications = NotificationConfig{
		Workers: v.GetInt("NOTIFY_WORKERS"),
		Retries: v.GetInt("NOTIFY_RETRIES"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ta_management")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PROCTOR_CONSECUTIVE_PENALTY", 500)
	v.SetDefault("PROCTOR_PROGRAM_MIX_PENALTY", 1000)
	v.SetDefault("PROCTOR_DEPARTMENT_PENALTY", 2000)
	v.SetDefault("PROCTOR_ROSTER_DEPARTMENT_FACTOR", 0)
	v.SetDefault("PROCTOR_WORKLOAD_WEIGHT", 10)
	v.SetDefault("PROCTOR_GRADUATE_COURSE_LEVEL", 500)
	v.SetDefault("PROCTOR_NO_MIX_PROGRAMS", false)
	v.SetDefault("PROCTOR_BLOCK_SAME_DAY", true)
	v.SetDefault("PROCTOR_PENDING_LEAVE_BLOCKS", false)
	v.SetDefault("PROCTOR_MAX_WORKLOAD", 0)
	v.SetDefault("PROCTOR_LOCK_TTL", "15s")

	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("ENABLE_METRICS", true)
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

func nonNegative(value, fallback float64) float64 {
	if value < 0 {
		return fallback
	}
	return value
}

// viper reports a missing explicit config file as a plain fs error rather than
// ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
