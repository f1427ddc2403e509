package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"http_server"`
	Square      SquareConfig      `mapstructure:"square"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	PaymentLink PaymentLinkConfig `mapstructure:"payment_link"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type SquareConfig struct {
	AccessToken    string        `mapstructure:"access_token" validate:"required"`
	Environment    string        `mapstructure:"environment" validate:"required,oneof=sandbox production"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type WebhookConfig struct {
	SignatureKey     string `mapstructure:"signature_key"`
	NotificationURL  string `mapstructure:"notification_url"`
	VerifySignatures bool   `mapstructure:"verify_signatures"`
}

type PaymentLinkConfig struct {
	Name        string `mapstructure:"name"`
	Amount      int64  `mapstructure:"amount"`
	Currency    string `mapstructure:"currency"`
	Description string `mapstructure:"description"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds the configuration from environment variables for
// container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_SERVER_PORT", 8080),
			BaseURL:           getEnv("HTTP_SERVER_BASE_URL", ""),
			AllowedOrigins:    getEnv("HTTP_SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_SERVER_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Square: SquareConfig{
			AccessToken:    getEnv("SQUARE_ACCESS_TOKEN", ""),
			Environment:    getEnv("SQUARE_ENVIRONMENT", "sandbox"),
			RequestTimeout: getEnvAsDuration("SQUARE_REQUEST_TIMEOUT", 30*time.Second),
		},
		Webhook: WebhookConfig{
			SignatureKey:     getEnv("WEBHOOK_SIGNATURE_KEY", ""),
			NotificationURL:  getEnv("WEBHOOK_NOTIFICATION_URL", ""),
			VerifySignatures: getEnvAsBool("WEBHOOK_VERIFY_SIGNATURES", true),
		},
		PaymentLink: PaymentLinkConfig{
			Name:        getEnv("PAYMENT_LINK_NAME", "Quick Pay"),
			Amount:      int64(getEnvAsInt("PAYMENT_LINK_AMOUNT", 1000)),
			Currency:    getEnv("PAYMENT_LINK_CURRENCY", "USD"),
			Description: getEnv("PAYMENT_LINK_DESCRIPTION", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOGGING_LEVEL", "info"),
			Format: getEnv("LOGGING_FORMAT", "json"),
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Square.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("square config: %v", err))
	}

	if err := c.Webhook.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("webhook config: %v", err))
	}

	if err := c.PaymentLink.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("payment link config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *SquareConfig) Validate() error {
	if c.AccessToken == "" {
		return errors.New("access_token is required")
	}
	if c.Environment != "sandbox" && c.Environment != "production" {
		return fmt.Errorf("environment must be sandbox or production, got %q", c.Environment)
	}
	return nil
}

func (c *WebhookConfig) Validate() error {
	if c.VerifySignatures {
		if c.SignatureKey == "" {
			return errors.New("signature_key is required when verify_signatures is enabled")
		}
		if c.NotificationURL == "" {
			return errors.New("notification_url is required when verify_signatures is enabled")
		}
		if _, err := url.Parse(c.NotificationURL); err != nil {
			return fmt.Errorf("invalid notification_url: %w", err)
		}
	}
	return nil
}

func (c *PaymentLinkConfig) Validate() error {
	if c.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if len(c.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	return nil
}
