package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Store backends shared by sessions and the rate limiter.
const (
	StoreMemory = "memory"
	StoreCookie = "cookie"
	StoreRedis  = "redis"
)

// Mail drivers.
const (
	MailDriverSMTP     = "smtp"
	MailDriverSendgrid = "sendgrid"
	MailDriverConsole  = "console"
)

type Config struct {
	Env     string
	Port    int
	BaseURL string

	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Auth      AuthConfig
	Mail      MailConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
	Site      SiteConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration
}

// SessionConfig controls the login session cookie and its backing store.
type SessionConfig struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Store  string
	Secure bool
}

// AuthConfig holds the credential policy.
type AuthConfig struct {
	MinPasswordLength int
}

// MailConfig selects and configures the contact form transport.
type MailConfig struct {
	Driver         string
	Server         string
	Port           int
	Username       string
	Password       string
	Recipient      string
	SendgridAPIKey string
	Timeout        time.Duration
	// Constrained marks hosting where outbound mail is skipped so requests never block on it.
	Constrained bool
}

// Configured reports whether the selected transport has credentials.
func (m MailConfig) Configured() bool {
	switch m.Driver {
	case MailDriverConsole:
		return true
	case MailDriverSendgrid:
		return m.SendgridAPIKey != "" && m.Username != ""
	default:
		return m.Username != "" && m.Password != ""
	}
}

// Inbox returns the address contact messages are delivered to.
func (m MailConfig) Inbox() string {
	if m.Recipient != "" {
		return m.Recipient
	}
	return m.Username
}

// UploadConfig constrains news attachments.
type UploadConfig struct {
	Dir               string
	MaxSizeBytes      int64
	AllowedExtensions []string
}

// RateLimitConfig defines per-address request ceilings.
type RateLimitConfig struct {
	Store          string
	LoginPerMinute int
	PerHour        int
	PerDay         int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SiteConfig carries static site settings.
type SiteConfig struct {
	VerificationFile string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.BaseURL = v.GetString("BASE_URL")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		CacheTTL: parseDuration(v.GetString("REDIS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Session = SessionConfig{
		Name:   v.GetString("SESSION_NAME"),
		Secret: v.GetString("SESSION_SECRET"),
		MaxAge: parseDuration(v.GetString("SESSION_MAX_AGE"), 7*24*time.Hour),
		Store:  strings.ToLower(v.GetString("SESSION_STORE")),
		Secure: v.GetBool("SESSION_SECURE"),
	}

	cfg.Auth = AuthConfig{
		MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
	}

	cfg.Mail = MailConfig{
		Driver:         strings.ToLower(v.GetString("MAIL_DRIVER")),
		Server:         v.GetString("MAIL_SERVER"),
		Port:           v.GetInt("MAIL_PORT"),
		Username:       v.GetString("MAIL_USERNAME"),
		Password:       v.GetString("MAIL_PASSWORD"),
		Recipient:      v.GetString("MAIL_RECIPIENT"),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
		Timeout:        parseDuration(v.GetString("MAIL_TIMEOUT"), 10*time.Second),
		Constrained:    v.GetBool("CONSTRAINED_ENV") || v.GetString("RENDER") != "",
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_SIZE")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Upload = UploadConfig{
		Dir:               v.GetString("UPLOAD_DIR"),
		MaxSizeBytes:      maxUpload,
		AllowedExtensions: splitAndTrim(strings.ToLower(v.GetString("UPLOAD_ALLOWED_EXTENSIONS"))),
	}

	cfg.RateLimit = RateLimitConfig{
		Store:          strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
		LoginPerMinute: v.GetInt("RATE_LIMIT_LOGIN_PER_MINUTE"),
		PerHour:        v.GetInt("RATE_LIMIT_PER_HOUR"),
		PerDay:         v.GetInt("RATE_LIMIT_PER_DAY"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Site = SiteConfig{
		VerificationFile: v.GetString("VERIFICATION_FILE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tutoring_site")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CACHE_TTL", "5m")

	v.SetDefault("SESSION_NAME", "tutoring_session")
	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_MAX_AGE", "168h")
	v.SetDefault("SESSION_STORE", StoreCookie)
	v.SetDefault("SESSION_SECURE", false)

	v.SetDefault("AUTH_MIN_PASSWORD_LENGTH", 4)

	v.SetDefault("MAIL_DRIVER", MailDriverSMTP)
	v.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 465)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_RECIPIENT", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_TIMEOUT", "10s")
	v.SetDefault("CONSTRAINED_ENV", false)

	v.SetDefault("UPLOAD_DIR", "./static/uploads")
	v.SetDefault("UPLOAD_MAX_SIZE", 5*1024*1024)
	v.SetDefault("UPLOAD_ALLOWED_EXTENSIONS", "jpg,png,pdf,zip,docx")

	v.SetDefault("RATE_LIMIT_STORE", StoreMemory)
	v.SetDefault("RATE_LIMIT_LOGIN_PER_MINUTE", 5)
	v.SetDefault("RATE_LIMIT_PER_HOUR", 50)
	v.SetDefault("RATE_LIMIT_PER_DAY", 200)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("VERIFICATION_FILE", "google77b51b745d5d14fa.html")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
