package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Stripe   StripeConfig
	Email    EmailConfig
	Waitlist WaitlistConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AdminConfig seeds the initial dashboard admin account.
type AdminConfig struct {
	Email    string
	Password string
}

type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

type EmailConfig struct {
	APIKey  string
	BaseURL string
	From    string
	SiteURL string // base for referral share links in emails
}

type WaitlistConfig struct {
	CodeAttempts int // referral-code uniqueness retries before timestamp fallback
	MinAge       int
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // .env is optional

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=bbwaitlist port=5432 sslmode=disable")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 50)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("JWT_EXPIRY_MINUTES", 60)
	viper.SetDefault("JWT_ISSUER", "bbwaitlist")
	viper.SetDefault("ADMIN_EMAIL", "admin@bbmembership.com")
	viper.SetDefault("STRIPE_BASE_URL", "https://api.stripe.com")
	viper.SetDefault("EMAIL_BASE_URL", "https://api.resend.com")
	viper.SetDefault("FROM_EMAIL", "BB Membership <hello@bbmembership.com>")
	viper.SetDefault("SITE_URL", "https://bbmembership.com")
	viper.SetDefault("REFERRAL_CODE_ATTEMPTS", 10)
	viper.SetDefault("MIN_AGE", 18)

	return &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             viper.GetString("DATABASE_DSN"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			Expiry: time.Duration(viper.GetInt("JWT_EXPIRY_MINUTES")) * time.Minute,
			Issuer: viper.GetString("JWT_ISSUER"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		Stripe: StripeConfig{
			SecretKey: viper.GetString("STRIPE_SECRET_KEY"),
			BaseURL:   viper.GetString("STRIPE_BASE_URL"),
		},
		Email: EmailConfig{
			APIKey:  viper.GetString("RESEND_API_KEY"),
			BaseURL: viper.GetString("EMAIL_BASE_URL"),
			From:    viper.GetString("FROM_EMAIL"),
			SiteURL: viper.GetString("SITE_URL"),
		},
		Waitlist: WaitlistConfig{
			CodeAttempts: viper.GetInt("REFERRAL_CODE_ATTEMPTS"),
			MinAge:       viper.GetInt("MIN_AGE"),
		},
	}
}
