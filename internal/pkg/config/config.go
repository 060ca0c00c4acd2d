package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	GatewayStripe  = "stripe"
	GatewaySandbox = "sandbox"

	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	SinkLog   = "log"
	SinkKafka = "kafka"
	SinkSNS   = "sns"
)

var (
	ErrSandboxInLiveMode = errors.New("sandbox gateway cannot run with PAYMENT_LIVE=true")
	ErrTestKeyInLiveMode = errors.New("test-mode gateway key configured with PAYMENT_LIVE=true")
	ErrUnknownOption     = errors.New("unknown configuration option")
	ErrEmptySecret       = errors.New("secret must not be empty")
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Store     StoreConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Gateway   GatewayConfig
	Webhook   WebhookConfig
	Verify    VerifyConfig
	Reconcile ReconcileConfig
	Redis     RedisConfig
	Notify    NotifyConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"payments"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type StoreConfig struct {
	Driver      string `envconfig:"STORE_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type GatewayConfig struct {
	Driver             string        `envconfig:"PAYMENT_GATEWAY_DRIVER" default:"stripe"`
	PublicKey          string        `envconfig:"PAYMENT_PUBLIC_KEY"`
	SecretKey          string        `envconfig:"PAYMENT_SECRET_KEY" required:"true"`
	WebhookSecret      string        `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
	Live               bool          `envconfig:"PAYMENT_LIVE" default:"false"`
	Timeout            time.Duration `envconfig:"PAYMENT_GATEWAY_TIMEOUT" default:"10s"`
	MaxRetries         uint64        `envconfig:"PAYMENT_GATEWAY_MAX_RETRIES" default:"2"`
	BaseURL            string        `envconfig:"PAYMENT_GATEWAY_BASE_URL"`
	SignatureTolerance time.Duration `envconfig:"PAYMENT_SIGNATURE_TOLERANCE" default:"5m"`
	SignatureHeader    string        `envconfig:"PAYMENT_SIGNATURE_HEADER" default:"Stripe-Signature"`
}

type WebhookConfig struct {
	DedupBackend          string        `envconfig:"WEBHOOK_DEDUP_BACKEND" default:"memory"`
	DedupRetention        time.Duration `envconfig:"WEBHOOK_DEDUP_RETENTION" default:"72h"`
	DedupMaxEntries       int           `envconfig:"WEBHOOK_DEDUP_MAX_ENTRIES" default:"100000"`
	HardFailUnknownIntent bool          `envconfig:"WEBHOOK_HARD_FAIL_UNKNOWN_INTENT" default:"false"`
	MaxBodyBytes          int64         `envconfig:"WEBHOOK_MAX_BODY_BYTES" default:"65536"`
	RatePerMinute         int           `envconfig:"WEBHOOK_RATE_PER_MINUTE" default:"600"`
}

type VerifyConfig struct {
	FailOnOverpayment bool `envconfig:"VERIFY_FAIL_ON_OVERPAYMENT" default:"true"`
}

type ReconcileConfig struct {
	MaxAttempts int `envconfig:"RECONCILE_MAX_ATTEMPTS" default:"3"`
}

type RedisConfig struct {
	URL       string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"payments:webhook:seen:"`
}

type NotifyConfig struct {
	Sink         string   `envconfig:"NOTIFY_SINK" default:"log"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"payment-events"`
	SNSTopicARN  string   `envconfig:"SNS_TOPIC_ARN"`
	AWSEndpoint  string   `envconfig:"AWS_ENDPOINT"`
}

type WorkerConfig struct {
	SweepEnabled        bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	SweepInterval       time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	SweepStaleAfter     time.Duration `envconfig:"SWEEP_STALE_AFTER" default:"15m"`
	SweepBatchSize      int           `envconfig:"SWEEP_BATCH_SIZE" default:"50"`
	DispatchEnabled     bool          `envconfig:"DISPATCH_ENABLED" default:"true"`
	DispatchInterval    time.Duration `envconfig:"DISPATCH_INTERVAL" default:"2s"`
	DispatchBatchSize   int           `envconfig:"DISPATCH_BATCH_SIZE" default:"100"`
	DispatchMaxAttempts int           `envconfig:"DISPATCH_MAX_ATTEMPTS" default:"8"`
	DispatchLease       time.Duration `envconfig:"DISPATCH_LEASE" default:"5m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
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

func (c Config) Validate() error {
	if blank(c.Gateway.WebhookSecret) {
		return fmt.Errorf("%w: PAYMENT_WEBHOOK_SECRET", ErrEmptySecret)
	}
	if blank(c.JWT.Secret) {
		return fmt.Errorf("%w: JWT_SECRET", ErrEmptySecret)
	}
	if c.Gateway.Driver == GatewayStripe && blank(c.Gateway.SecretKey) {
		return fmt.Errorf("%w: PAYMENT_SECRET_KEY", ErrEmptySecret)
	}
	if !oneOf(c.Gateway.Driver, GatewayStripe, GatewaySandbox) {
		return fmt.Errorf("%w: PAYMENT_GATEWAY_DRIVER=%q", ErrUnknownOption, c.Gateway.Driver)
	}
	if !oneOf(c.Store.Driver, BackendPostgres, BackendMemory) {
		return fmt.Errorf("%w: STORE_DRIVER=%q", ErrUnknownOption, c.Store.Driver)
	}
	if !oneOf(c.Webhook.DedupBackend, BackendMemory, BackendRedis) {
		return fmt.Errorf("%w: WEBHOOK_DEDUP_BACKEND=%q", ErrUnknownOption, c.Webhook.DedupBackend)
	}
	if !oneOf(c.Notify.Sink, SinkLog, SinkKafka, SinkSNS) {
		return fmt.Errorf("%w: NOTIFY_SINK=%q", ErrUnknownOption, c.Notify.Sink)
	}
	if c.Gateway.Live {
		if c.Gateway.Driver == GatewaySandbox {
			return ErrSandboxInLiveMode
		}
		if strings.HasPrefix(c.Gateway.SecretKey, "sk_test_") || strings.HasPrefix(c.Gateway.PublicKey, "pk_test_") {
			return ErrTestKeyInLiveMode
		}
	}
	return nil
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
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
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Store: StoreConfig{
			Driver: BackendMemory,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-jwt-secret",
			Duration: time.Hour,
		},
		Gateway: GatewayConfig{
			Driver:             GatewaySandbox,
			PublicKey:          "pk_test_sandbox",
			SecretKey:          "sk_test_sandbox",
			WebhookSecret:      "whsec_test_secret",
			Timeout:            2 * time.Second,
			MaxRetries:         1,
			SignatureTolerance: 5 * time.Minute,
			SignatureHeader:    "Stripe-Signature",
		},
		Webhook: WebhookConfig{
			DedupBackend:    BackendMemory,
			DedupRetention:  72 * time.Hour,
			DedupMaxEntries: 1000,
			MaxBodyBytes:    65536,
			RatePerMinute:   6000,
		},
		Verify: VerifyConfig{
			FailOnOverpayment: true,
		},
		Reconcile: ReconcileConfig{
			MaxAttempts: 3,
		},
		Redis: RedisConfig{
			URL:       "redis://localhost:6379/0",
			KeyPrefix: "payments:test:seen:",
		},
		Notify: NotifyConfig{
			Sink: SinkLog,
		},
		Worker: WorkerConfig{
			SweepInterval:       time.Minute,
			SweepStaleAfter:     15 * time.Minute,
			SweepBatchSize:      50,
			DispatchInterval:    time.Second,
			DispatchBatchSize:   100,
			DispatchMaxAttempts: 8,
			DispatchLease:       5 * time.Minute,
		},
	}
}
