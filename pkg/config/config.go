package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix is the envconfig prefix shared by every setting.
	EnvPrefix = "POSADMIN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "POSADMIN_DB_DSN"
	EnvDBHost = "POSADMIN_DB_HOST"
	EnvDBUser = "POSADMIN_DB_USER"
	EnvDBName = "POSADMIN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Sales        SalesConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"POSADMIN_APP_ENV" required:"true"`
	Port         string `envconfig:"POSADMIN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POSADMIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POSADMIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POSADMIN_DB_DSN"`
	Driver string `envconfig:"POSADMIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POSADMIN_DB_HOST"`
	LegacyPort     int    `envconfig:"POSADMIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POSADMIN_DB_USER"`
	LegacyPassword string `envconfig:"POSADMIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"POSADMIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"POSADMIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POSADMIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POSADMIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POSADMIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POSADMIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POSADMIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POSADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"POSADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"POSADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POSADMIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POSADMIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POSADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POSADMIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POSADMIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POSADMIN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POSADMIN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"POSADMIN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"POSADMIN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POSADMIN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POSADMIN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POSADMIN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POSADMIN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POSADMIN_ARGON_KEY_LEN" default:"32"`
}

// SalesConfig controls checkout settlement policy.
type SalesConfig struct {
	TaxRate       string `envconfig:"POSADMIN_SALES_TAX_RATE" default:"0.08"`
	AllowOversell bool   `envconfig:"POSADMIN_SALES_ALLOW_OVERSELL" default:"true"`
	CustomerName  string `envconfig:"POSADMIN_SALES_DEFAULT_CUSTOMER" default:"Walk-in Customer"`
}

// TaxRateDecimal parses the configured tax rate, falling back to 8%.
func (s SalesConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.TaxRate))
	if err != nil || rate.IsNegative() {
		return decimal.RequireFromString("0.08")
	}
	return rate
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POSADMIN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POSADMIN_AUTO_MIGRATE" default:"false"`
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
