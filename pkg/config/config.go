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
	Engine       EngineConfig
	Cron         CronConfig
	Storage      StorageConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PALLETBASE_APP_ENV" required:"true"`
	Port         string `envconfig:"PALLETBASE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PALLETBASE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PALLETBASE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PALLETBASE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PALLETBASE_DB_DSN"`
	Driver string `envconfig:"PALLETBASE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PALLETBASE_DB_HOST"`
	LegacyPort     int    `envconfig:"PALLETBASE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PALLETBASE_DB_USER"`
	LegacyPassword string `envconfig:"PALLETBASE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PALLETBASE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PALLETBASE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PALLETBASE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PALLETBASE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PALLETBASE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PALLETBASE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PALLETBASE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PALLETBASE_REDIS_ADDR"`
	Password     string        `envconfig:"PALLETBASE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PALLETBASE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PALLETBASE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PALLETBASE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PALLETBASE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PALLETBASE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PALLETBASE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// EngineConfig carries the calculator defaults that used to be app-global
// settings. They are injected into each engine call, never read ambiently.
type EngineConfig struct {
	StaleThresholdDays int    `envconfig:"PALLETBASE_STALE_THRESHOLD_DAYS" default:"30"`
	MileageRate        string `envconfig:"PALLETBASE_MILEAGE_RATE" default:"0.67"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PALLETBASE_CRON_INTERVAL" default:"24h"`
}

// StorageConfig points photo deletion at the bucket clients upload to.
// An empty bucket disables remote removal; photo rows are still archived.
type StorageConfig struct {
	Bucket          string `envconfig:"PALLETBASE_STORAGE_BUCKET"`
	CredentialsJSON string `envconfig:"PALLETBASE_STORAGE_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"PALLETBASE_STORAGE_CREDENTIALS_FILE"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PALLETBASE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PALLETBASE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		db.DSN = "palletbase.db"
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
