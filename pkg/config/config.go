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
)

// Supported document store drivers.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Supported mail drivers.
const (
	MailSendGrid = "sendgrid"
	MailSMTP     = "smtp"
	MailLog      = "log"
	MailNone     = "none"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	AppName   string
	SiteURL   string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mail     MailConfig
	Fees     FeesConfig
	Uploads  UploadsConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Log      LogConfig
}

// StoreConfig selects the document store backing enrollment records.
type StoreConfig struct {
	Driver string
	Prefix string
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
	Host     string
	Port     int
	Password string
	DB       int
}

// MailConfig configures transactional email delivery.
type MailConfig struct {
	Driver          string
	SendGridAPIKey  string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	FromName        string
	FromAddress     string
	AdminRecipients []string
	Bcc             []string
	SupportAddress  string
	NotifyTimeout   time.Duration
}

// Enabled reports whether outbound email can be attempted with the current settings.
func (m MailConfig) Enabled() bool {
	if m.FromAddress == "" {
		return false
	}
	switch m.Driver {
	case MailSendGrid:
		return m.SendGridAPIKey != ""
	case MailSMTP:
		return m.SMTPHost != ""
	case MailLog:
		return true
	default:
		return false
	}
}

// FeesConfig holds the static fee schedule, in Naira.
type FeesConfig struct {
	ProgramName   string
	Registration  int64
	CourseInClass int64
	CourseOnline  int64
}

// UploadsConfig controls payment proof storage & validation.
type UploadsConfig struct {
	Dir              string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
}

// AdminConfig holds the single staff account and token settings.
type AdminConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    string
	JWTIssuer    string
	JWTExpiry    time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.AppName = v.GetString("APP_NAME")
	cfg.SiteURL = strings.TrimRight(v.GetString("SITE_URL"), "/")

	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		Prefix: strings.Trim(v.GetString("STORE_PREFIX"), "/"),
	}

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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Mail = MailConfig{
		Driver:          strings.ToLower(v.GetString("MAIL_DRIVER")),
		SendGridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		SMTPHost:        v.GetString("SMTP_HOST"),
		SMTPPort:        v.GetInt("SMTP_PORT"),
		SMTPUser:        v.GetString("SMTP_USER"),
		SMTPPassword:    v.GetString("SMTP_PASSWORD"),
		FromName:        v.GetString("MAIL_FROM_NAME"),
		FromAddress:     v.GetString("MAIL_FROM_ADDRESS"),
		AdminRecipients: splitAndTrim(v.GetString("MAIL_ADMIN_RECIPIENTS")),
		Bcc:             splitAndTrim(v.GetString("MAIL_BCC")),
		SupportAddress:  v.GetString("MAIL_SUPPORT_ADDRESS"),
		NotifyTimeout:   parseDuration(v.GetString("NOTIFY_TIMEOUT"), 15*time.Second),
	}

	cfg.Fees = FeesConfig{
		ProgramName:   v.GetString("PROGRAM_NAME"),
		Registration:  v.GetInt64("FEE_REGISTRATION"),
		CourseInClass: v.GetInt64("FEE_COURSE_IN_CLASS"),
		CourseOnline:  v.GetInt64("FEE_COURSE_ONLINE"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:              v.GetString("UPLOADS_DIR"),
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOADS_ALLOWED_MIME_TYPES")),
		SignedURLSecret:  v.GetString("UPLOADS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("UPLOADS_SIGNED_URL_TTL"), 7*24*time.Hour),
	}

	cfg.Admin = AdminConfig{
		Email:        strings.ToLower(strings.TrimSpace(v.GetString("ADMIN_EMAIL"))),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTIssuer:    v.GetString("JWT_ISSUER"),
		JWTExpiry:    parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("APP_NAME", "Scent Craft Academy")
	v.SetDefault("SITE_URL", "http://localhost:8080")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("STORE_PREFIX", "enrollments")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "academy")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MAIL_DRIVER", MailSendGrid)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM_NAME", "Scent Craft Academy")
	v.SetDefault("MAIL_FROM_ADDRESS", "enrollments@scentcraft.academy")
	v.SetDefault("MAIL_ADMIN_RECIPIENTS", "admissions@scentcraft.academy")
	v.SetDefault("MAIL_BCC", "")
	v.SetDefault("MAIL_SUPPORT_ADDRESS", "support@scentcraft.academy")
	v.SetDefault("NOTIFY_TIMEOUT", "15s")

	v.SetDefault("PROGRAM_NAME", "Commercial Perfumery Masterclass (2 Weeks)")
	v.SetDefault("FEE_REGISTRATION", 20000)
	v.SetDefault("FEE_COURSE_IN_CLASS", 650000)
	v.SetDefault("FEE_COURSE_ONLINE", 500000)

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("UPLOADS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/webp,application/pdf")
	v.SetDefault("UPLOADS_SIGNED_URL_SECRET", "dev_uploads_secret")
	v.SetDefault("UPLOADS_SIGNED_URL_TTL", "168h")

	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "academy-enrollment-api")
	v.SetDefault("JWT_EXPIRATION", "12h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
