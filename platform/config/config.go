// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for the dashboard middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// CronConfig provides the shared secret protecting the cron endpoints.
type CronConfig interface {
	GetCronSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// DispatchConfig provides settings for the outbound messaging provider.
type DispatchConfig interface {
	GetDispatchBaseURL() string
	GetDispatchAPIKey() string
	GetDispatchAPISecret() string
	GetDispatchSenderPhone() string
	GetDispatchKakaoChannelID() string
	IsDispatchEnabled() bool
}

// ParserConfig provides settings for the LLM inquiry parser.
type ParserConfig interface {
	GetGeminiAPIKey() string
	GetParserModel() string
	IsParserEnabled() bool
}

// EmailConfig provides settings for SMTP report delivery.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFollowupInterval() time.Duration
}

// NotificationConfig provides settings for staff notifications.
type NotificationConfig interface {
	GetAppBaseURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	JWTAccessSecret        string
	CronSecret             string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	AppBaseURL             string
	DispatchBaseURL        string
	DispatchAPIKey         string
	DispatchAPISecret      string
	DispatchSenderPhone    string
	DispatchKakaoChannelID string
	GeminiAPIKey           string
	ParserModel            string
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	EmailFromName          string
	EmailFromAddress       string
	EmailEnabled           bool
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	FollowupInterval       time.Duration
	IntakeRatePerMinute    int
	IntakeRateBurst        int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// CronConfig implementation
func (c *Config) GetCronSecret() string { return c.CronSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// DispatchConfig implementation
func (c *Config) GetDispatchBaseURL() string        { return c.DispatchBaseURL }
func (c *Config) GetDispatchAPIKey() string         { return c.DispatchAPIKey }
func (c *Config) GetDispatchAPISecret() string      { return c.DispatchAPISecret }
func (c *Config) GetDispatchSenderPhone() string    { return c.DispatchSenderPhone }
func (c *Config) GetDispatchKakaoChannelID() string { return c.DispatchKakaoChannelID }
func (c *Config) IsDispatchEnabled() bool {
	return c.DispatchAPIKey != "" && c.DispatchAPISecret != ""
}

// ParserConfig implementation
func (c *Config) GetGeminiAPIKey() string { return c.GeminiAPIKey }
func (c *Config) GetParserModel() string  { return c.ParserModel }
func (c *Config) IsParserEnabled() bool   { return c.GeminiAPIKey != "" }

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.EmailEnabled && c.SMTPHost != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                 { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool           { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string           { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int            { return c.AsynqConcurrency }
func (c *Config) GetFollowupInterval() time.Duration  { return c.FollowupInterval }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		CronSecret:             getEnv("CRON_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:             getEnv("APP_BASE_URL", "http://localhost:3000"),
		DispatchBaseURL:        getEnv("DISPATCH_BASE_URL", "https://api.solapi.com"),
		DispatchAPIKey:         getEnv("DISPATCH_API_KEY", ""),
		DispatchAPISecret:      getEnv("DISPATCH_API_SECRET", ""),
		DispatchSenderPhone:    getEnv("DISPATCH_SENDER_PHONE", ""),
		DispatchKakaoChannelID: getEnv("DISPATCH_KAKAO_CHANNEL_ID", ""),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		ParserModel:            getEnv("PARSER_MODEL", "gemini-2.0-flash"),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "WeddingLead"),
		EmailFromAddress:       getEnv("EMAIL_FROM_ADDRESS", "noreply@weddinglead.kr"),
		EmailEnabled:           strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true"),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		FollowupInterval:       mustDuration(getEnv("FOLLOWUP_INTERVAL", "30m")),
		IntakeRatePerMinute:    mustInt(getEnv("INTAKE_RATE_PER_MINUTE", "10")),
		IntakeRateBurst:        mustInt(getEnv("INTAKE_RATE_BURST", "5")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func mustInt(raw string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return parsed
}

func mustDuration(raw string) time.Duration {
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return parsed
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
