package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, secrets, etc.)
// - default: Values common across all environments (timezone, timeout, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Cookie      CookieConfig
	Reservation ReservationConfig
	Pricing     PricingConfig
	Stripe      StripeConfig
	Kafka       KafkaConfig
	RateLimit   RateLimitConfig
	Jobs        JobsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	// seeds a demo user and fleet on startup; safe to leave on, rows are only inserted once
	SeedDemoData bool `envconfig:"STORAGE_SEED_DEMO" default:"false"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER"`
	Password    string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer          string        `envconfig:"JWT_ISSUER" default:"vehicle-reservation"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"2h"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

const (
	LockModeOptimistic = "optimistic"
	LockModeStrict     = "strict"
)

type ReservationConfig struct {
	// optimistic: pay outside the vehicle lock, re-check under it; strict: hold the lock across payment
	LockMode          string        `envconfig:"RESERVATION_LOCK_MODE" default:"optimistic"`
	PaymentTimeout    time.Duration `envconfig:"RESERVATION_PAYMENT_TIMEOUT" default:"10s"`
	PersistRetries    uint64        `envconfig:"RESERVATION_PERSIST_RETRIES" default:"3"`
	DependencyRetries uint64        `envconfig:"RESERVATION_DEPENDENCY_RETRIES" default:"2"`
	RetryBaseDelay    time.Duration `envconfig:"RESERVATION_RETRY_BASE_DELAY" default:"100ms"`
	FinalizeTimeout   time.Duration `envconfig:"RESERVATION_FINALIZE_TIMEOUT" default:"15s"`
}

type PricingConfig struct {
	Currency   string `envconfig:"PRICING_CURRENCY" default:"jpy"`
	TaxRateBPS int64  `envconfig:"PRICING_TAX_RATE_BPS" default:"750"`
	// CODE:10% or CODE:5000 (minor units)
	DiscountCodes map[string]string `envconfig:"PRICING_DISCOUNT_CODES" default:"WELCOME10:10%"`
	// CODE:AMOUNT[/day] or CODE:PERCENT%
	Extras map[string]string `envconfig:"PRICING_EXTRAS" default:"EXTRA_DRIVER:500/day,INSURANCE_BASIC:1000/day,INSURANCE_PREMIUM:15%"`
}

type StripeConfig struct {
	// empty selects the sandbox gateway
	SecretKey string `envconfig:"STRIPE_SECRET_KEY" default:""`
}

type KafkaConfig struct {
	// empty selects the log notifier
	Brokers           []string `envconfig:"KAFKA_BROKERS" default:""`
	ConfirmationTopic string   `envconfig:"KAFKA_CONFIRMATION_TOPIC" default:"reservation.confirmed"`
}

type RateLimitConfig struct {
	AuthPerMinute   float64       `envconfig:"RATE_LIMIT_AUTH_PER_MINUTE" default:"20"`
	AuthBurst       int           `envconfig:"RATE_LIMIT_AUTH_BURST" default:"10"`
	CleanupInterval time.Duration `envconfig:"RATE_LIMIT_CLEANUP_INTERVAL" default:"5m"`
}

type JobsConfig struct {
	TokenSweepSpec string `envconfig:"JOBS_TOKEN_SWEEP_SPEC" default:"@every 1h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

var ErrInvalidConfig = errors.New("invalid configuration")

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return fmt.Errorf("%w: DB_USER and DB_NAME are required for the postgres driver", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Reservation.LockMode {
	case LockModeOptimistic, LockModeStrict:
	default:
		return fmt.Errorf("%w: unknown RESERVATION_LOCK_MODE %q", ErrInvalidConfig, c.Reservation.LockMode)
	}

	if c.Reservation.PaymentTimeout <= 0 {
		return fmt.Errorf("%w: RESERVATION_PAYMENT_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.Pricing.TaxRateBPS < 0 {
		return fmt.Errorf("%w: PRICING_TAX_RATE_BPS cannot be negative", ErrInvalidConfig)
	}
	return nil
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err.Error())
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
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:          "test-secret-key-for-unit-tests-only",
			Issuer:          "vehicle-reservation-test",
			AccessTokenTTL:  2 * time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Reservation: ReservationConfig{
			LockMode:          LockModeOptimistic,
			PaymentTimeout:    time.Second,
			PersistRetries:    2,
			DependencyRetries: 1,
			RetryBaseDelay:    time.Millisecond,
			FinalizeTimeout:   5 * time.Second,
		},
		Pricing: PricingConfig{
			Currency:   "jpy",
			TaxRateBPS: 750,
			DiscountCodes: map[string]string{
				"WELCOME10": "10%",
				"FLAT500":   "500",
			},
			Extras: map[string]string{
				"EXTRA_DRIVER":      "500/day",
				"INSURANCE_PREMIUM": "15%",
			},
		},
		Kafka: KafkaConfig{
			ConfirmationTopic: "reservation.confirmed",
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute:   600,
			AuthBurst:       100,
			CleanupInterval: time.Minute,
		},
		Jobs: JobsConfig{
			TokenSweepSpec: "@every 1h",
		},
	}
}
