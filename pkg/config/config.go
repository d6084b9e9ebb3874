package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cloudinary    CloudinaryConfig
	Media         MediaConfig
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
	Env          string `envconfig:"VAPORLAB_APP_ENV" required:"true"`
	Port         string `envconfig:"VAPORLAB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VAPORLAB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VAPORLAB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VAPORLAB_DB_DSN"`

	LegacyHost     string `envconfig:"VAPORLAB_DB_HOST"`
	LegacyPort     int    `envconfig:"VAPORLAB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VAPORLAB_DB_USER"`
	LegacyPassword string `envconfig:"VAPORLAB_DB_PASSWORD"`
	LegacyName     string `envconfig:"VAPORLAB_DB_NAME"`
	LegacySSLMode  string `envconfig:"VAPORLAB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VAPORLAB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VAPORLAB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VAPORLAB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VAPORLAB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VAPORLAB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VAPORLAB_REDIS_ADDR"`
	Password     string        `envconfig:"VAPORLAB_REDIS_PASSWORD"`
	DB           int           `envconfig:"VAPORLAB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VAPORLAB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VAPORLAB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VAPORLAB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VAPORLAB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VAPORLAB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VAPORLAB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VAPORLAB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VAPORLAB_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VAPORLAB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VAPORLAB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VAPORLAB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VAPORLAB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VAPORLAB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"VAPORLAB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"VAPORLAB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"VAPORLAB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VAPORLAB_AUTO_MIGRATE" default:"false"`
}

type CloudinaryConfig struct {
	URL        string `envconfig:"VAPORLAB_CLOUDINARY_URL" required:"true"`
	BaseFolder string `envconfig:"VAPORLAB_CLOUDINARY_BASE_FOLDER" default:"vaporlab"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"VAPORLAB_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes converts the configured megabyte cap for multipart parsing.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
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
