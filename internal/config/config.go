package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	MigrationsPath string
	HTTPAddr       string
	PublicBaseURL  string
	JWTSecret      string
	DefaultLocale  string
	AppEnv         string
	LogLevel       string
	SweepInterval  time.Duration

	ExpoPushURL     string
	ExpoAccessToken string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	SMSGatewayURL   string
	SMSGatewayToken string
	SMSFrom         string

	CloudinaryURL     string
	DiscordWebhookURL string
	AnalyticsURL      string

	DevUserID   string
	DevEmail    string
	DevPassword string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getenv("DATABASE_URL"),
		MigrationsPath:    getenv("MIGRATIONS_PATH"),
		HTTPAddr:          getenv("HTTP_ADDR"),
		PublicBaseURL:     strings.TrimRight(getenv("PUBLIC_BASE_URL"), "/"),
		JWTSecret:         getenv("JWT_SECRET"),
		DefaultLocale:     getenv("DEFAULT_LOCALE"),
		AppEnv:            getenv("APP_ENV"),
		LogLevel:          getenv("LOG_LEVEL"),
		ExpoPushURL:       getenv("EXPO_PUSH_URL"),
		ExpoAccessToken:   getenv("EXPO_ACCESS_TOKEN"),
		SMTPHost:          getenv("SMTP_HOST"),
		SMTPUser:          getenv("SMTP_USER"),
		SMTPPassword:      getenv("SMTP_PASSWORD"),
		MailFrom:          getenv("MAIL_FROM"),
		SMSGatewayURL:     getenv("SMS_GATEWAY_URL"),
		SMSGatewayToken:   getenv("SMS_GATEWAY_TOKEN"),
		SMSFrom:           getenv("SMS_FROM"),
		CloudinaryURL:     getenv("CLOUDINARY_URL"),
		DiscordWebhookURL: getenv("DISCORD_WEBHOOK_URL"),
		AnalyticsURL:      getenv("ANALYTICS_URL"),
		DevUserID:         getenv("DEV_USER_ID"),
		DevEmail:          getenv("DEV_EMAIL"),
		DevPassword:       getenv("DEV_PASSWORD"),
	}

	if raw := strings.TrimSpace(getenv("SMTP_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config: SMTP_PORT must be a number (%q)", raw)
		}
		cfg.SMTPPort = port
	}
	if raw := strings.TrimSpace(getenv("SWEEP_INTERVAL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: SWEEP_INTERVAL must be a duration (%q): %w", raw, err)
		}
		cfg.SweepInterval = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate fills defaults and checks every rule on the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/dinnerbell?sslmode=disable"
	}
	if c.IsSQLite() {
		if c.SQLitePath() == "" {
			return fmt.Errorf("config: DATABASE_URL sqlite form is sqlite:///path/to/file.db")
		}
	} else {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	}

	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	if c.AppEnv == "" {
		c.AppEnv = "production"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = time.Minute
	}
	if c.SweepInterval < time.Second {
		return fmt.Errorf("config: SWEEP_INTERVAL must be at least 1s")
	}

	if strings.TrimSpace(c.PublicBaseURL) == "" {
		return fmt.Errorf("config: PUBLIC_BASE_URL is required")
	}
	base, err := url.Parse(c.PublicBaseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return fmt.Errorf("config: PUBLIC_BASE_URL must be an absolute URL (%q)", c.PublicBaseURL)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}

	if c.SMTPHost != "" && c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.DevLoginEnabled() && c.DevUserID == "" {
		return fmt.Errorf("config: DEV_USER_ID is required when DEV_EMAIL and DEV_PASSWORD are set")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// DevLoginEnabled reports whether the development login route is served.
func (c *Config) DevLoginEnabled() bool {
	return c.IsDevelopment() && c.DevEmail != "" && c.DevPassword != ""
}

func (c *Config) IsSQLite() bool {
	return strings.HasPrefix(c.DatabaseURL, "sqlite://")
}

// SQLitePath returns the file path of a sqlite:///path URL.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
}

func (c *Config) MailEnabled() bool { return c.SMTPHost != "" }
func (c *Config) SMSEnabled() bool { return c.SMSGatewayURL != "" }
func (c *Config) MediaEnabled() bool { return c.CloudinaryURL != "" }
func (c *Config) DiscordEnabled() bool { return c.DiscordWebhookURL != "" }
func (c *Config) AnalyticsEnabled() bool { return c.AnalyticsURL != "" }
