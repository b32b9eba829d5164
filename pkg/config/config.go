package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Performance  PerformanceConfig
	Cron         CronConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FILIERA_APP_ENV" required:"true"`
	Port         string `envconfig:"FILIERA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FILIERA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FILIERA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FILIERA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FILIERA_DB_DSN"`
	Driver string `envconfig:"FILIERA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FILIERA_DB_HOST"`
	LegacyPort     int    `envconfig:"FILIERA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FILIERA_DB_USER"`
	LegacyPassword string `envconfig:"FILIERA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FILIERA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FILIERA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FILIERA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FILIERA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FILIERA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FILIERA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FILIERA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FILIERA_REDIS_ADDR"`
	Password     string        `envconfig:"FILIERA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FILIERA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FILIERA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FILIERA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FILIERA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FILIERA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FILIERA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FILIERA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FILIERA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FILIERA_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig carries the single back-office credential this deployment trusts.
type AdminConfig struct {
	Email        string `envconfig:"FILIERA_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"FILIERA_ADMIN_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FILIERA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FILIERA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FILIERA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FILIERA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FILIERA_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FILIERA_AUTO_MIGRATE" default:"false"`
}

// PerformanceConfig tunes the supplier performance snapshot cache.
type PerformanceConfig struct {
	SnapshotTTL time.Duration `envconfig:"FILIERA_PERFORMANCE_SNAPSHOT_TTL" default:"10m"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"FILIERA_CRON_INTERVAL" default:"1h"`
	OutboxRetention time.Duration `envconfig:"FILIERA_CRON_OUTBOX_RETENTION" default:"168h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FILIERA_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"FILIERA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"FILIERA_PUBSUB_ORDERS_TOPIC" default:"filiera-order-events"`
	DomainTopic string `envconfig:"FILIERA_PUBSUB_DOMAIN_TOPIC" default:"filiera-domain-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FILIERA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FILIERA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FILIERA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
