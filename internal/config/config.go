package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Queue     QueueConfig
	Email     EmailConfig
	Gmail     GmailConfig
	Converter ConverterConfig
	Extractor ExtractorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for archived source PDFs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds job runner settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// EmailConfig holds job summary email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// GmailConfig holds Gmail API settings for the shipment inbox.
type GmailConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
	UserID          string `mapstructure:"user_id"`
	Query           string `mapstructure:"query"`
	MaxMessages     int    `mapstructure:"max_messages"`
}

// ConverterConfig holds settings for the PDF-to-markdown converter service.
type ConverterConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorProviderConfig holds settings for a single LLM extractor provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	Endpoint     string `mapstructure:"endpoint"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds hybrid extraction settings with multi-provider
// fallback support.
type ExtractorConfig struct {
	AllowFallback bool `mapstructure:"allow_fallback"`
	MaxInputChars int  `mapstructure:"max_input_chars"`

	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	if e.Primary.Provider != "" {
		return &e.Primary
	}
	return nil
}

// SecondaryConfig returns the secondary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// Load reads configuration from environment variables with the LADINGLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LADINGLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "ladinglens")
	v.SetDefault("db.password", "ladinglens_secret")
	v.SetDefault("db.name", "ladinglens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "ladinglens-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.concurrency", 2)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@ladinglens.local")
	v.SetDefault("email.from_name", "LadingLens")
	v.SetDefault("email.to_address", "")

	// Gmail defaults
	v.SetDefault("gmail.credentials_file", "credentials.json")
	v.SetDefault("gmail.token_file", "token.json")
	v.SetDefault("gmail.user_id", "me")
	v.SetDefault("gmail.query", "has:attachment filename:pdf")
	v.SetDefault("gmail.max_messages", 25)

	// Converter defaults
	v.SetDefault("converter.base_url", "http://localhost:8090")
	v.SetDefault("converter.timeout_secs", 120)

	// Extractor defaults
	v.SetDefault("extractor.allow_fallback", true)
	v.SetDefault("extractor.max_input_chars", 15000)
	v.SetDefault("extractor.primary.provider", "claude")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.endpoint", "")
	v.SetDefault("extractor.primary.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.primary.max_retries", 2)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.endpoint", "http://localhost:11434/v1/chat/completions")
	v.SetDefault("extractor.secondary.default_model", "llama3.1")
	v.SetDefault("extractor.secondary.max_retries", 2)
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "LADINGLENS_SERVER_PORT",
		"server.read_timeout":  "LADINGLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout": "LADINGLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":   "LADINGLENS_SERVER_ENVIRONMENT",
		"db.host":              "LADINGLENS_DB_HOST",
		"db.port":              "LADINGLENS_DB_PORT",
		"db.user":              "LADINGLENS_DB_USER",
		"db.password":          "LADINGLENS_DB_PASSWORD",
		"db.name":              "LADINGLENS_DB_NAME",
		"db.sslmode":           "LADINGLENS_DB_SSLMODE",
		"db.max_open":          "LADINGLENS_DB_MAX_OPEN",
		"db.max_idle":          "LADINGLENS_DB_MAX_IDLE",
		"s3.region":            "LADINGLENS_S3_REGION",
		"s3.bucket":            "LADINGLENS_S3_BUCKET",
		"s3.endpoint":          "LADINGLENS_S3_ENDPOINT",
		"s3.access_key":        "LADINGLENS_S3_ACCESS_KEY",
		"s3.secret_key":        "LADINGLENS_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "LADINGLENS_S3_MAX_FILE_SIZE_MB",
		"log.level":            "LADINGLENS_LOG_LEVEL",
		"log.format":           "LADINGLENS_LOG_FORMAT",

		"cors.allowed_origins":     "LADINGLENS_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs": "LADINGLENS_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":        "LADINGLENS_QUEUE_CONCURRENCY",
		"email.provider":           "LADINGLENS_EMAIL_PROVIDER",
		"email.region":             "LADINGLENS_EMAIL_REGION",
		"email.from_address":       "LADINGLENS_EMAIL_FROM_ADDRESS",
		"email.from_name":          "LADINGLENS_EMAIL_FROM_NAME",
		"email.to_address":         "LADINGLENS_EMAIL_TO_ADDRESS",
		"gmail.credentials_file":   "LADINGLENS_GMAIL_CREDENTIALS_FILE",
		"gmail.token_file":         "LADINGLENS_GMAIL_TOKEN_FILE",
		"gmail.user_id":            "LADINGLENS_GMAIL_USER_ID",
		"gmail.query":              "LADINGLENS_GMAIL_QUERY",
		"gmail.max_messages":       "LADINGLENS_GMAIL_MAX_MESSAGES",
		"converter.base_url":       "LADINGLENS_CONVERTER_BASE_URL",
		"converter.timeout_secs":   "LADINGLENS_CONVERTER_TIMEOUT_SECS",

		"extractor.allow_fallback":          "LADINGLENS_EXTRACTOR_ALLOW_FALLBACK",
		"extractor.max_input_chars":         "LADINGLENS_EXTRACTOR_MAX_INPUT_CHARS",
		"extractor.primary.provider":        "LADINGLENS_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "LADINGLENS_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.endpoint":        "LADINGLENS_EXTRACTOR_PRIMARY_ENDPOINT",
		"extractor.primary.default_model":   "LADINGLENS_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.max_retries":     "LADINGLENS_EXTRACTOR_PRIMARY_MAX_RETRIES",
		"extractor.primary.timeout_secs":    "LADINGLENS_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "LADINGLENS_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "LADINGLENS_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.endpoint":      "LADINGLENS_EXTRACTOR_SECONDARY_ENDPOINT",
		"extractor.secondary.default_model": "LADINGLENS_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.max_retries":   "LADINGLENS_EXTRACTOR_SECONDARY_MAX_RETRIES",
		"extractor.secondary.timeout_secs":  "LADINGLENS_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LADINGLENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LADINGLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ToAddress:   v.GetString("email.to_address"),
	}
	cfg.Gmail = GmailConfig{
		CredentialsFile: v.GetString("gmail.credentials_file"),
		TokenFile:       v.GetString("gmail.token_file"),
		UserID:          v.GetString("gmail.user_id"),
		Query:           v.GetString("gmail.query"),
		MaxMessages:     v.GetInt("gmail.max_messages"),
	}
	cfg.Converter = ConverterConfig{
		BaseURL:     v.GetString("converter.base_url"),
		TimeoutSecs: v.GetInt("converter.timeout_secs"),
	}
	cfg.Extractor = ExtractorConfig{
		AllowFallback: v.GetBool("extractor.allow_fallback"),
		MaxInputChars: v.GetInt("extractor.max_input_chars"),
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			Endpoint:     v.GetString("extractor.primary.endpoint"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			MaxRetries:   v.GetInt("extractor.primary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			Endpoint:     v.GetString("extractor.secondary.endpoint"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			MaxRetries:   v.GetInt("extractor.secondary.max_retries"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}

	return cfg, nil
}
