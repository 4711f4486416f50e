package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	Auth        AuthConfig
	Reservation ReservationConfig
	Outbox      OutboxConfig
	Calendar    CalendarConfig
	Store       StoreConfig
	Policy      PolicyConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

// AuthConfig verifies bearer tokens minted by the identity provider; nothing here issues them.
type AuthConfig struct {
	Secret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"AUTH_JWT_ISSUER"`
}

type ReservationConfig struct {
	MaxAttempts    int           `envconfig:"RESERVATION_MAX_ATTEMPTS" default:"4"`
	BaseBackoff    time.Duration `envconfig:"RESERVATION_BASE_BACKOFF" default:"50ms"`
	MaxBackoff     time.Duration `envconfig:"RESERVATION_MAX_BACKOFF" default:"1s"`
	LockTimeout    time.Duration `envconfig:"RESERVATION_LOCK_TIMEOUT" default:"2s"`
	Timeout        time.Duration `envconfig:"RESERVATION_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"RESERVATION_IDEMPOTENCY_TTL" default:"24h"`
	MaxRangeDays   int           `envconfig:"AVAILABILITY_MAX_RANGE_DAYS" default:"366"`
}

type OutboxConfig struct {
	Enabled     bool          `envconfig:"OUTBOX_ENABLED" default:"true"`
	Schedule    string        `envconfig:"OUTBOX_SCHEDULE" default:"@every 10s"`
	BatchSize   int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	MaxAttempts int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"5"`
	RetryDelay  time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"30s"`
}

type CalendarConfig struct {
	TimeZone string `envconfig:"CALENDAR_TIMEZONE" default:"Asia/Tokyo"`
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type PolicyConfig struct {
	File string `envconfig:"SLOT_POLICY_FILE"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return errors.New("DB_USER and DB_NAME are required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Reservation.MaxAttempts < 1 {
		return errors.New("RESERVATION_MAX_ATTEMPTS must be at least 1")
	}
	if _, err := time.LoadLocation(c.Calendar.TimeZone); err != nil {
		return fmt.Errorf("invalid CALENDAR_TIMEZONE: %w", err)
	}
	return nil
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Auth: AuthConfig{
			Secret: "test-secret-key-for-testing-only",
		},
		Reservation: ReservationConfig{
			MaxAttempts:    4,
			BaseBackoff:    10 * time.Millisecond,
			MaxBackoff:     200 * time.Millisecond,
			LockTimeout:    2 * time.Second,
			Timeout:        10 * time.Second,
			IdempotencyTTL: 24 * time.Hour,
			MaxRangeDays:   366,
		},
		Outbox: OutboxConfig{
			Enabled:     false,
			Schedule:    "@every 1s",
			BatchSize:   50,
			MaxAttempts: 5,
			RetryDelay:  time.Second,
		},
		Calendar: CalendarConfig{TimeZone: "Asia/Tokyo"},
		Store:    StoreConfig{Driver: StoreDriverPostgres},
	}
}
