package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"wattfeed/internal/validation"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Log contains logger configuration
	Log LogConfig
	// HTTP contains outbound transport configuration
	HTTP HTTPConfig
	// Sources contains per-feed configuration
	Sources SourcesConfig
	// Export contains feature export configuration
	Export ExportConfig
	// Scheduler contains cron configuration
	Scheduler SchedulerConfig

	// FieldAliasesFile optionally overrides the tariff and hydrology field aliases
	FieldAliasesFile string

	// RateLimit contains per-client API rate limiting
	RateLimit RateLimitConfig
}

// RateLimitConfig contains per-client API rate limiting settings
type RateLimitConfig struct {
	Requests int `validate:"gte=1"` // Number of requests allowed per window
	Window   int `validate:"gte=1"` // Time window in seconds
	Burst    int `validate:"gte=1"` // Maximum burst size
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string `validate:"required"`
	// Port is the database server port
	Port int `validate:"gte=1,lte=65535"`
	// User is the database username
	User string `validate:"required"`
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string `validate:"required"`
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MinConns is the minimum number of pooled connections
	MinConns int32 `validate:"gte=0"`
	// MaxConns is the maximum number of pooled connections
	MaxConns int32 `validate:"gte=1,gtefield=MinConns"`
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// URL returns the postgres URL used by the pool and the migration runner.
// User and password are escaped so reserved characters stay in the userinfo.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string `validate:"required,numeric"`
	// AdminToken guards the manual run trigger; empty disables the check
	AdminToken string
	// CORSOrigin is the allowed origin of the admin dashboard
	CORSOrigin string
	// ShutdownTimeout bounds the graceful shutdown
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
	Output string `validate:"required"`
	// MaxAge in days for rotated log files; 0 disables rotation
	MaxAge int `validate:"gte=0"`
}

// HTTPConfig contains outbound HTTP transport settings
type HTTPConfig struct {
	Timeout     time.Duration `validate:"gt=0"`
	MaxAttempts int           `validate:"gte=1"`
	// RateLimit is the outbound request rate per second; 0 means unlimited
	RateLimit float64 `validate:"gte=0"`
	RateBurst int     `validate:"gte=1"`
}

// SourcesConfig groups the feed configurations
type SourcesConfig struct {
	Entsoe    EntsoeConfig
	OpenMeteo OpenMeteoConfig
	EKZ       EKZConfig
	BAFU      BAFUConfig
}

// EntsoeConfig contains day-ahead price feed settings
type EntsoeConfig struct {
	// Token is the security token; required only when the feed runs
	Token  string
	URL    string `validate:"required,url"`
	Domain string `validate:"required,nospaces"`
}

// OpenMeteoConfig contains weather feed settings
type OpenMeteoConfig struct {
	URL          string  `validate:"required,url"`
	Latitude     float64 `validate:"gte=-90,lte=90"`
	Longitude    float64 `validate:"gte=-180,lte=180"`
	ForecastDays int     `validate:"gte=1,lte=16"`
}

// EKZConfig contains dynamic tariff feed settings
type EKZConfig struct {
	URL        string `validate:"required,url"`
	TariffType string `validate:"required,nospaces"`
	// Date is YYYY-MM-DD; empty means today in UTC
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

// BAFUConfig contains hydrology feed settings
type BAFUConfig struct {
	URL       string `validate:"required,url"`
	StationID string `validate:"required,nospaces"`
	DaysBack  int    `validate:"gte=1"`
	App       string
}

// ExportConfig contains feature export settings
type ExportConfig struct {
	Dir       string  `validate:"required"`
	TestRatio float64 `validate:"gt=0,lt=1"`
	// DateStamp is YYYYMMDD; empty means the run date in UTC
	DateStamp string `validate:"omitempty,len=8,numeric"`
	View      string `validate:"required,nospaces"`
	S3        S3Config
}

// S3Config contains optional artifact mirroring settings
type S3Config struct {
	Enabled   bool
	Bucket    string `validate:"required_if=Enabled true"`
	Prefix    string
	Endpoint  string `validate:"omitempty,url"`
	PathStyle bool
	Region    string
	AccessKey string
	SecretKey string
}

// SchedulerConfig contains cron settings for the provider manager
type SchedulerConfig struct {
	Enabled         bool
	ETLSchedule     string `validate:"cronspec"`
	ExportSchedule  string `validate:"cronspec"`
	// RunLogRetention is how long provider run records are kept
	RunLogRetention time.Duration `validate:"gt=0"`
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port:            getEnvOrDefault("API_PORT", "8080"),
		AdminToken:      os.Getenv("API_ADMIN_TOKEN"),
		CORSOrigin:      getEnvOrDefault("API_CORS_ORIGIN", "*"),
		ShutdownTimeout: getEnvAsDuration("API_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "wattfeed"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MinConns:       int32(getEnvAsInt("DB_MIN_CONNS", 1)),
		MaxConns:       int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
	}
	c.Log = LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
		Output: getEnvOrDefault("LOG_OUTPUT", "stdout"),
		MaxAge: getEnvAsInt("LOG_MAX_AGE", 0),
	}
	c.HTTP = HTTPConfig{
		Timeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		MaxAttempts: getEnvAsInt("HTTP_MAX_ATTEMPTS", 3),
		RateLimit:   getEnvAsFloat("HTTP_RATE_LIMIT", 0),
		RateBurst:   getEnvAsInt("HTTP_RATE_BURST", 1),
	}
	c.Sources = SourcesConfig{
		Entsoe: EntsoeConfig{
			Token:  os.Getenv("ENTSOE_API_TOKEN"),
			URL:    getEnvOrDefault("ENTSOE_API_URL", "https://web-api.tp.entsoe.eu/api"),
			Domain: getEnvOrDefault("ENTSOE_DOMAIN", "10YCH-SWISSGRIDZ"),
		},
		OpenMeteo: OpenMeteoConfig{
			URL:          getEnvOrDefault("OPENMETEO_API_URL", "https://api.open-meteo.com/v1/forecast"),
			Latitude:     getEnvAsFloat("WEATHER_LATITUDE", 47.5001),
			Longitude:    getEnvAsFloat("WEATHER_LONGITUDE", 8.7502),
			ForecastDays: getEnvAsInt("WEATHER_FORECAST_DAYS", 2),
		},
		EKZ: EKZConfig{
			URL:        getEnvOrDefault("EKZ_API_URL", "https://api.tariffs.ekz.ch/v1/tariffs"),
			TariffType: getEnvOrDefault("EKZ_TARIFF_TYPE", "dynamic"),
			Date:       os.Getenv("EKZ_DATE"),
		},
		BAFU: BAFUConfig{
			URL:       getEnvOrDefault("BAFU_API_URL", "https://api.existenz.ch/apiv1/hydro/daterange"),
			StationID: getEnvOrDefault("BAFU_STATION_ID", "2018"),
			DaysBack:  getEnvAsInt("BAFU_DAYS_BACK", 2),
			App:       getEnvOrDefault("BAFU_APP", "bdsp"),
		},
	}
	c.FieldAliasesFile = os.Getenv("FIELD_ALIASES_FILE")
	c.Export = ExportConfig{
		Dir:       getEnvOrDefault("EXPORT_DIR", "data/exports"),
		TestRatio: getEnvAsFloat("EXPORT_TEST_RATIO", 0.2),
		DateStamp: os.Getenv("EXPORT_DATE_STAMP"),
		View:      getEnvOrDefault("EXPORT_VIEW", "training_features"),
		S3: S3Config{
			Enabled:   getEnvAsBool("EXPORT_S3_ENABLED", false),
			Bucket:    os.Getenv("EXPORT_S3_BUCKET"),
			Prefix:    getEnvOrDefault("EXPORT_S3_PREFIX", "exports"),
			Endpoint:  os.Getenv("EXPORT_S3_ENDPOINT"),
			PathStyle: getEnvAsBool("EXPORT_S3_PATH_STYLE", false),
			Region:    getEnvOrDefault("AWS_REGION", "eu-central-2"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
	c.Scheduler = SchedulerConfig{
		Enabled:         getEnvAsBool("SCHEDULER_ENABLED", false),
		ETLSchedule:     getEnvOrDefault("ETL_SCHEDULE", "0 6 * * *"),
		ExportSchedule:  getEnvOrDefault("EXPORT_SCHEDULE", "0 7 * * *"),
		RunLogRetention: getEnvAsDuration("RUN_LOG_RETENTION", 720*time.Hour),
	}

	c.RateLimit = RateLimitConfig{
		Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 1000),
		Window:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		Burst:    getEnvAsInt("RATE_LIMIT_BURST", 50),
	}

	return c.Validate()
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsFloat retrieves an environment variable and converts it to a float
func getEnvAsFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30")
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(s) * time.Second
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
