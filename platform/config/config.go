// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
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

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// WhatsAppConfig provides settings for the WhatsApp Cloud API client.
type WhatsAppConfig interface {
	GetWhatsAppGraphBaseURL() string
	GetWhatsAppPhoneID() string
	GetWhatsAppAPIToken() string
	GetWhatsAppTemplateName() string
	GetWhatsAppTemplateLanguage() string
	GetWhatsAppSendRate() float64
	IsWhatsAppEnabled() bool
}

// WebhookConfig provides settings for inbound webhook verification.
type WebhookConfig interface {
	GetWhatsAppVerifyToken() string
}

// CronConfig provides settings for the HTTP-invoked reminder cron endpoint.
type CronConfig interface {
	GetCronSecret() string
	IsDevelopment() bool
}

// SchedulerConfig provides settings for the asynq background worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetReminderCronSpec() string
}

// TimeConfig provides the local timezone for user-facing dates.
type TimeConfig interface {
	GetLocation() *time.Location
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	JWTAccessSecret          string
	CORSAllowAll             bool
	CORSOrigins              []string
	CronSecret               string
	WhatsAppGraphBaseURL     string
	WhatsAppPhoneID          string
	WhatsAppAPIToken         string
	WhatsAppVerifyToken      string
	WhatsAppTemplateName     string
	WhatsAppTemplateLanguage string
	WhatsAppSendRate         float64
	RedisURL                 string
	AsynqQueueName           string
	AsynqConcurrency         int
	ReminderCronSpec         string
	Location                 *time.Location
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppGraphBaseURL() string     { return c.WhatsAppGraphBaseURL }
func (c *Config) GetWhatsAppPhoneID() string          { return c.WhatsAppPhoneID }
func (c *Config) GetWhatsAppAPIToken() string         { return c.WhatsAppAPIToken }
func (c *Config) GetWhatsAppTemplateName() string     { return c.WhatsAppTemplateName }
func (c *Config) GetWhatsAppTemplateLanguage() string { return c.WhatsAppTemplateLanguage }
func (c *Config) GetWhatsAppSendRate() float64        { return c.WhatsAppSendRate }
func (c *Config) IsWhatsAppEnabled() bool {
	return c.WhatsAppPhoneID != "" && c.WhatsAppAPIToken != ""
}

// WebhookConfig implementation
func (c *Config) GetWhatsAppVerifyToken() string { return c.WhatsAppVerifyToken }

// CronConfig implementation
func (c *Config) GetCronSecret() string { return c.CronSecret }
func (c *Config) IsDevelopment() bool   { return strings.EqualFold(c.Env, "development") }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string   { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int    { return c.AsynqConcurrency }
func (c *Config) GetReminderCronSpec() string { return c.ReminderCronSpec }

// TimeConfig implementation
func (c *Config) GetLocation() *time.Location { return c.Location }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timezone := getEnv("APP_TIMEZONE", "America/Sao_Paulo")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", timezone, err)
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTAccessSecret:          getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:             strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true"),
		CORSOrigins:              splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		CronSecret:               getEnv("CRON_SECRET", ""),
		WhatsAppGraphBaseURL:     getEnv("WHATSAPP_GRAPH_BASE_URL", "https://graph.facebook.com/v21.0"),
		WhatsAppPhoneID:          getEnv("WHATSAPP_PHONE_ID", ""),
		WhatsAppAPIToken:         getEnv("WHATSAPP_API_TOKEN", ""),
		WhatsAppVerifyToken:      getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppTemplateName:     getEnv("WHATSAPP_TEMPLATE_LEMBRETE", "lembrete_compromisso"),
		WhatsAppTemplateLanguage: getEnv("WHATSAPP_TEMPLATE_LANGUAGE", "pt_BR"),
		WhatsAppSendRate:         mustFloat(getEnv("WHATSAPP_SEND_RATE", "10")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		ReminderCronSpec:         getEnv("REMINDER_CRON_SPEC", "*/5 * * * *"),
		Location:                 location,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.WhatsAppSendRate <= 0 {
		cfg.WhatsAppSendRate = 10
	}

	return cfg, nil
}
