package utils

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Email        EmailConfig
	Confirmation ConfirmationConfig
	HTTP         HTTPConfig
	Import       ImportConfig
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
	SSLMode  string
	MaxConns int32
}

// URL builds a postgres:// connection string, used by the migrator.
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

type EmailConfig struct {
	Provider     string // "resend" or "log"
	ResendAPIKey string
	From         string
}

type ConfirmationConfig struct {
	ExpiryMinutes int
	Length        int
}

type HTTPConfig struct {
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type ImportConfig struct {
	CSVPath string
}

// LoadConfig reads envFile (".env" when empty) and the process environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	viper.SetConfigFile(envFile)
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "yamdb")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_ISSUER", "yamdb")
	viper.SetDefault("EMAIL_PROVIDER", "log")
	viper.SetDefault("EMAIL_FROM", "noreply@yamdb.local")
	viper.SetDefault("CODE_EXPIRY_MINUTES", 60)
	viper.SetDefault("CODE_LENGTH", 8)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("IMPORT_CSV_PATH", "static/data/")

	// .env is optional, plain environment works too
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      viper.GetString("JWT_ISSUER"),
		},
		Email: EmailConfig{
			Provider:     viper.GetString("EMAIL_PROVIDER"),
			ResendAPIKey: viper.GetString("RESEND_API_KEY"),
			From:         viper.GetString("EMAIL_FROM"),
		},
		Confirmation: ConfirmationConfig{
			ExpiryMinutes: viper.GetInt("CODE_EXPIRY_MINUTES"),
			Length:        viper.GetInt("CODE_LENGTH"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins:    splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitRequests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitWindow:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Import: ImportConfig{
			CSVPath: viper.GetString("IMPORT_CSV_PATH"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
