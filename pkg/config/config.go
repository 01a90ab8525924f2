package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SOKASTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "SOKASTORE_APP_ENV"
	EnvPort      = "SOKASTORE_APP_PORT"
	EnvDBDSN     = "SOKASTORE_DB_DSN"
	EnvDBHost    = "SOKASTORE_DB_HOST"
	EnvDBUser    = "SOKASTORE_DB_USER"
	EnvDBName    = "SOKASTORE_DB_NAME"
	EnvRedisURL  = "SOKASTORE_REDIS_URL"
	EnvJWTSecret = "SOKASTORE_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Orders        OrdersConfig
	Uploads       UploadsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SOKASTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"SOKASTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOKASTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOKASTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOKASTORE_DB_DSN"`
	Driver string `envconfig:"SOKASTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOKASTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"SOKASTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOKASTORE_DB_USER"`
	LegacyPassword string `envconfig:"SOKASTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOKASTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOKASTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOKASTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOKASTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOKASTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOKASTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOKASTORE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SOKASTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOKASTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOKASTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOKASTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOKASTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOKASTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOKASTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOKASTORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOKASTORE_JWT_ISSUER" default:"sokastore"`
	ExpirationMinutes int    `envconfig:"SOKASTORE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOKASTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOKASTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOKASTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOKASTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOKASTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SOKASTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SOKASTORE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SOKASTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SOKASTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SOKASTORE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SOKASTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type OrdersConfig struct {
	TaxRate         string        `envconfig:"SOKASTORE_ORDERS_TAX_RATE" default:"0.08"`
	CreateWindow    time.Duration `envconfig:"SOKASTORE_ORDERS_CREATE_WINDOW" default:"1m"`
	CreateUserLimit int           `envconfig:"SOKASTORE_ORDERS_CREATE_USER_LIMIT" default:"10"`
}

type UploadsConfig struct {
	MaxImageBytes int64 `envconfig:"SOKASTORE_MAX_IMAGE_BYTES" default:"5242880"`
	MaxImageCount int   `envconfig:"SOKASTORE_MAX_IMAGE_COUNT" default:"8"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOKASTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOKASTORE_AUTO_MIGRATE" default:"false"`
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
