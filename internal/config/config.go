package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Mail     MailConfig
	Upload   UploadConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"5000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"star-admin-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// DatabaseConfig holds SQL connection settings.
type DatabaseConfig struct {
	Dialect  string `envconfig:"DB_DIALECT" default:"mysql"` // mysql, postgres or sqlite
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	Name     string `envconfig:"DB_NAME" default:"star_admin"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS" default:""`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	Path     string `envconfig:"DB_PATH" default:"./data/star_admin.db"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret       string        `envconfig:"JWT_SECRET"`
	EncryptionKey   string        `envconfig:"ENCRYPTION_KEY"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`
	RevocationStore string        `envconfig:"REVOCATION_STORE" default:"memory"` // memory or redis
	SweepInterval   time.Duration `envconfig:"REVOCATION_SWEEP_INTERVAL" default:"10m"`

	OTPCleanupInterval time.Duration `envconfig:"OTP_CLEANUP_INTERVAL" default:"10m"`
}

// CacheConfig holds Redis settings.
type CacheConfig struct {
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix     string `envconfig:"REDIS_KEY_PREFIX" default:"staradmin:revoked:"`

	StatsTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"30s"`
}

// MailConfig holds the outbound mail endpoint.
type MailConfig struct {
	Endpoint string        `envconfig:"MAIL_ENDPOINT" default:""`
	Timeout  time.Duration `envconfig:"MAIL_TIMEOUT" default:"10s"`
}

// UploadConfig holds local upload settings.
type UploadConfig struct {
	Dir           string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	MaxImageBytes int64  `envconfig:"UPLOAD_MAX_IMAGE_BYTES" default:"5242880"`
	MaxDocBytes   int64  `envconfig:"UPLOAD_MAX_DOCUMENT_BYTES" default:"10485760"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the data source name for the configured dialect.
func (d *DatabaseConfig) DSN() string {
	switch d.Dialect {
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     d.address(),
			Path:     "/" + d.Name,
			RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
		}
		return u.String()
	case "sqlite":
		return d.Path
	default:
		m := mysql.NewConfig()
		m.User = d.User
		m.Passwd = d.Password
		m.Net = "tcp"
		m.Addr = d.address()
		m.DBName = d.Name
		m.ParseTime = true
		m.ClientFoundRows = true
		return m.FormatDSN()
	}
}

func (d *DatabaseConfig) address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Validate checks settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if n := len(strings.TrimSpace(c.Auth.EncryptionKey)); n != 32 {
		errs = append(errs, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", n))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}

	switch c.Database.Dialect {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DIALECT %q", c.Database.Dialect))
	}

	switch c.Auth.RevocationStore {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unsupported REVOCATION_STORE %q", c.Auth.RevocationStore))
	}

	return errors.Join(errs...)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
