package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	API           APIConfig
	State         StateConfig
	Server        ServerConfig
	DB            DBConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Redis         RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.State.ensureDir(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LUXEMART_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"LUXEMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUXEMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig describes the backend the storefront talks to.
type APIConfig struct {
	BaseURL string `envconfig:"LUXEMART_API_URL" default:"http://localhost:5000"`
	// Timeout bounds each request. Zero keeps the historical behavior of
	// waiting indefinitely; cart contents are retained either way.
	Timeout time.Duration `envconfig:"LUXEMART_API_TIMEOUT" default:"0"`
}

// StateConfig locates the client-local slot store.
type StateConfig struct {
	Dir string `envconfig:"LUXEMART_STATE_DIR"`
}

func (s *StateConfig) ensureDir() error {
	if s.Dir != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving state dir: %w", err)
	}
	s.Dir = filepath.Join(home, ".luxemart")
	return nil
}

// ServerConfig configures the stub API binary.
type ServerConfig struct {
	Port         string `envconfig:"LUXEMART_STUB_PORT" default:"5000"`
	SeedDemoData bool   `envconfig:"LUXEMART_STUB_SEED_DEMO" default:"true"`
	AdminEmail   string `envconfig:"LUXEMART_STUB_ADMIN_EMAIL" default:"admin@luxemart.test"`
	AdminName    string `envconfig:"LUXEMART_STUB_ADMIN_NAME" default:"Admin"`
	AdminPass    string `envconfig:"LUXEMART_STUB_ADMIN_PASSWORD" default:"admin123"`
}

type DBConfig struct {
	DSN        string `envconfig:"LUXEMART_DB_DSN"`
	SQLitePath string `envconfig:"LUXEMART_SQLITE_PATH" default:"luxemart-stub.db"`

	MaxOpenConns    int           `envconfig:"LUXEMART_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LUXEMART_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LUXEMART_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// UsePostgres reports whether a postgres DSN was supplied; the stub falls
// back to sqlite otherwise.
func (db DBConfig) UsePostgres() bool {
	return strings.TrimSpace(db.DSN) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"LUXEMART_JWT_SECRET" default:"luxemart-dev-secret"`
	Issuer            string `envconfig:"LUXEMART_JWT_ISSUER" default:"luxemart-stub"`
	ExpirationMinutes int    `envconfig:"LUXEMART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUXEMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUXEMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUXEMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUXEMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUXEMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUXEMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LUXEMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUXEMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LUXEMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LUXEMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LUXEMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RedisConfig is optional; when URL is empty the stub uses its in-memory
// rate limiter instead.
type RedisConfig struct {
	URL          string        `envconfig:"LUXEMART_REDIS_URL"`
	DialTimeout  time.Duration `envconfig:"LUXEMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUXEMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUXEMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}
