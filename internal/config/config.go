package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	LogFormat     string
	SiteConfig    string

	// Form backend
	FormBackend       string
	FormEndpoint      string
	FormName          string
	FormSubmitEmail   string
	FormSubmitTimeout time.Duration
	LeadSource        string
	// FormEdgeProxy declares that Netlify's edge answers POSTs to
	// PUBLIC_BASE_URL before they reach this server.
	FormEdgeProxy bool

	// Lead log
	LeadStore     string
	LeadLogPath   string
	LeadLogKey    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// HTTP
	CORSAllowedOrigins []string
	FormRateLimit      float64
	FormRateBurst      int

	// Lead notifications
	NotifyEmail       string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment values win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		SiteConfig:    getEnv("SITE_CONFIG", ""),

		FormBackend:       strings.ToLower(strings.TrimSpace(getEnv("FORM_BACKEND", "netlify"))),
		FormEndpoint:      getEnv("FORM_ENDPOINT", ""),
		FormName:          getEnv("FORM_NAME", "contact"),
		FormSubmitEmail:   getEnv("FORMSUBMIT_EMAIL", ""),
		FormSubmitTimeout: getEnvAsDuration("FORM_SUBMIT_TIMEOUT", 15*time.Second),
		LeadSource:        getEnv("LEAD_SOURCE", "Contact form"),
		FormEdgeProxy:     getEnvAsBool("FORM_EDGE_PROXY", false),

		LeadStore:     strings.ToLower(strings.TrimSpace(getEnv("LEAD_STORE", "memory"))),
		LeadLogPath:   getEnv("LEAD_LOG_PATH", "data/leads.db"),
		LeadLogKey:    getEnv("LEAD_LOG_KEY", "noah_leads"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		FormRateLimit:      getEnvAsFloat("FORM_RATE_LIMIT", 0.2),
		FormRateBurst:      getEnvAsInt("FORM_RATE_BURST", 5),

		NotifyEmail:       getEnv("NOTIFY_EMAIL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Living San Diego Realty"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-west-2"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
