package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "optica"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "OPTICA_DB_DSN"
	EnvDBHost = "OPTICA_DB_HOST"
	EnvDBUser = "OPTICA_DB_USER"
	EnvDBName = "OPTICA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Conversion   ConversionConfig
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
	Env          string   `envconfig:"OPTICA_APP_ENV" required:"true"`
	Port         string   `envconfig:"OPTICA_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"OPTICA_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"OPTICA_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"OPTICA_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"OPTICA_DB_DSN"`

	LegacyHost     string `envconfig:"OPTICA_DB_HOST"`
	LegacyPort     int    `envconfig:"OPTICA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OPTICA_DB_USER"`
	LegacyPassword string `envconfig:"OPTICA_DB_PASSWORD"`
	LegacyName     string `envconfig:"OPTICA_DB_NAME"`
	LegacySSLMode  string `envconfig:"OPTICA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OPTICA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPTICA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPTICA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPTICA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OPTICA_REDIS_URL"`
	Address      string        `envconfig:"OPTICA_REDIS_ADDR"`
	Password     string        `envconfig:"OPTICA_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPTICA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPTICA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPTICA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPTICA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPTICA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPTICA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OPTICA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OPTICA_JWT_ISSUER" default:"optica-api"`
	ExpirationMinutes int    `envconfig:"OPTICA_JWT_EXPIRATION_MINUTES" default:"480"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OPTICA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OPTICA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OPTICA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OPTICA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OPTICA_ARGON_KEY_LEN" default:"32"`
}

// ConversionConfig parameterizes who a converted sale is assigned to and which
// status it starts in. Deployments must point these at real rows instead of
// relying on hard-coded placeholders.
type ConversionConfig struct {
	DefaultEmployeeID   uint `envconfig:"OPTICA_CONVERSION_EMPLOYEE_ID" default:"1"`
	DefaultSaleStatusID uint `envconfig:"OPTICA_CONVERSION_SALE_STATUS_ID" default:"1"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OPTICA_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"OPTICA_SEED_ON_BOOT" default:"false"`
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
