package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Email        EmailConfig
	OTP          OTPConfig
	Notification NotificationConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	NATS         NATSConfig
	Webhook      WebhookConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	UseTLS   bool

	// MailerSend takes precedence over SMTP when an API key is set.
	MailerSendAPIKey   string
	MailerSendFromName string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

// NotificationConfig holds the business owner and contact details used in
// booking emails and chat messages.
type NotificationConfig struct {
	OwnerEmail      string
	OwnerPhone      string
	ContactPhone    string
	ContactEmail    string
	ContactWhatsApp string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type NATSConfig struct {
	URL string
}

type WebhookConfig struct {
	Secret string
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads an env file at path. A missing file is not an error;
// process environment variables always win over file values.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "cleaning-hub")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_TLS", false)
	v.SetDefault("MAILERSEND_FROM_NAME", "Cleaning Hub")
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("CONTACT_PHONE", "+234-XXX-XXX-XXXX")
	v.SetDefault("CONTACT_EMAIL", "info@cleaninghub.com")
	v.SetDefault("CONTACT_WHATSAPP", "+234-XXX-XXX-XXXX")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:               v.GetString("SMTP_HOST"),
			Port:               v.GetInt("SMTP_PORT"),
			User:               v.GetString("SMTP_USER"),
			Password:           v.GetString("SMTP_PASS"),
			From:               v.GetString("EMAIL_FROM"),
			UseTLS:             v.GetBool("SMTP_TLS"),
			MailerSendAPIKey:   v.GetString("MAILERSEND_API_KEY"),
			MailerSendFromName: v.GetString("MAILERSEND_FROM_NAME"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		Notification: NotificationConfig{
			OwnerEmail:      v.GetString("OWNER_EMAIL"),
			OwnerPhone:      v.GetString("OWNER_PHONE"),
			ContactPhone:    v.GetString("CONTACT_PHONE"),
			ContactEmail:    v.GetString("CONTACT_EMAIL"),
			ContactWhatsApp: v.GetString("CONTACT_WHATSAPP"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		NATS: NATSConfig{
			URL: v.GetString("NATS_URL"),
		},
		Webhook: WebhookConfig{
			Secret: v.GetString("WEBHOOK_SECRET"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
