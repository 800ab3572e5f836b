package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	NotifierSMTP = "smtp"
	NotifierLog  = "log"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	MaxBodyBytes int64
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
}

type JWTConfig struct {
	AccessSecret            string
	RefreshSecret           string
	ActivationSecret        string
	ResetSecret             string
	AccessExpiryHours       int
	RefreshExpiryHours      int
	ActivationExpiryMinutes int
}

type AuthConfig struct {
	VerifyCodeTTLMinutes int
	ResetTokenTTLMinutes int
	ResetURL             string
	CookieSecure         bool
	StrictPasswords      bool
	BcryptCost           int
	Notifier             string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Requests per second for /auth endpoints
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_MAX_BODY_BYTES", 1<<20)

	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "job_board")
	v.SetDefault("MONGO_TIMEOUT_SECONDS", 10)

	v.SetDefault("JWT_ACCESS_EXPIRY_HOURS", 72)
	v.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	v.SetDefault("JWT_ACTIVATION_EXPIRY_MINUTES", 60)

	v.SetDefault("AUTH_VERIFY_CODE_TTL_MINUTES", 60)
	v.SetDefault("AUTH_RESET_TOKEN_TTL_MINUTES", 60)
	v.SetDefault("AUTH_RESET_URL", "http://localhost:3000/reset-password")
	v.SetDefault("AUTH_COOKIE_SECURE", false)
	v.SetDefault("AUTH_STRICT_PASSWORDS", false)
	v.SetDefault("AUTH_BCRYPT_COST", 10)
	v.SetDefault("AUTH_NOTIFIER", NotifierSMTP)

	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("MQTT_ENABLED", false)
	v.SetDefault("MQTT_CLIENT_ID", "job-board-api")
	v.SetDefault("MQTT_TOPIC_PREFIX", "job-board")

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("RATE_LIMIT_AUTH_RPS", 2)
	v.SetDefault("RATE_LIMIT_AUTH_BURST", 5)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Request-ID")
	v.SetDefault("CORS_EXPOSED_HEADERS", "X-Request-ID")
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	v.SetDefault("CORS_MAX_AGE", 43200)
}

// Load reads an optional .env file from the working directory and then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	} else {
		log.Printf("Warning: config file %s not found. Falling back to environment variables only.", path)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("ENVIRONMENT"),
			MaxBodyBytes: v.GetInt64("SERVER_MAX_BODY_BYTES"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Database:       v.GetString("MONGO_DATABASE"),
			TimeoutSeconds: v.GetInt("MONGO_TIMEOUT_SECONDS"),
		},
		JWT: JWTConfig{
			AccessSecret:            v.GetString("JWT_ACCESS_SECRET"),
			RefreshSecret:           v.GetString("JWT_REFRESH_SECRET"),
			ActivationSecret:        v.GetString("JWT_ACTIVATION_SECRET"),
			ResetSecret:             v.GetString("JWT_RESET_SECRET"),
			AccessExpiryHours:       v.GetInt("JWT_ACCESS_EXPIRY_HOURS"),
			RefreshExpiryHours:      v.GetInt("JWT_REFRESH_EXPIRY_HOURS"),
			ActivationExpiryMinutes: v.GetInt("JWT_ACTIVATION_EXPIRY_MINUTES"),
		},
		Auth: AuthConfig{
			VerifyCodeTTLMinutes: v.GetInt("AUTH_VERIFY_CODE_TTL_MINUTES"),
			ResetTokenTTLMinutes: v.GetInt("AUTH_RESET_TOKEN_TTL_MINUTES"),
			ResetURL:             strings.TrimRight(v.GetString("AUTH_RESET_URL"), "/"),
			CookieSecure:         v.GetBool("AUTH_COOKIE_SECURE"),
			StrictPasswords:      v.GetBool("AUTH_STRICT_PASSWORDS"),
			BcryptCost:           v.GetInt("AUTH_BCRYPT_COST"),
			Notifier:             strings.ToLower(v.GetString("AUTH_NOTIFIER")),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		MQTT: MQTTConfig{
			Enabled:     v.GetBool("MQTT_ENABLED"),
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			Username:    v.GetString("MQTT_USERNAME"),
			Password:    v.GetString("MQTT_PASSWORD"),
			TopicPrefix: strings.Trim(v.GetString("MQTT_TOPIC_PREFIX"), "/"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      v.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    v.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(v.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(v.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

// Validate fails fast on settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []string

	if c.JWT.AccessSecret == "" {
		problems = append(problems, "JWT_ACCESS_SECRET is required")
	}
	if c.JWT.RefreshSecret == "" {
		problems = append(problems, "JWT_REFRESH_SECRET is required")
	}
	if c.JWT.ActivationSecret == "" {
		problems = append(problems, "JWT_ACTIVATION_SECRET is required")
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			problems = append(problems, "MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	case DriverPostgres:
		if c.Database.DBName == "" || c.Database.User == "" {
			problems = append(problems, "DB_NAME and DB_USER are required for the postgres driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	switch c.Auth.Notifier {
	case NotifierSMTP:
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			problems = append(problems, "SMTP_HOST and SMTP_FROM are required for the smtp notifier")
		}
	case NotifierLog:
	default:
		problems = append(problems, fmt.Sprintf("unsupported AUTH_NOTIFIER %q", c.Auth.Notifier))
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		problems = append(problems, "MQTT_BROKER is required when MQTT_ENABLED is true")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *MongoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiryHours) * time.Hour
}

func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpiryHours) * time.Hour
}

func (c *JWTConfig) ActivationTTL() time.Duration {
	return time.Duration(c.ActivationExpiryMinutes) * time.Minute
}

func (c *AuthConfig) VerifyCodeTTL() time.Duration {
	return time.Duration(c.VerifyCodeTTLMinutes) * time.Minute
}

func (c *AuthConfig) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetTokenTTLMinutes) * time.Minute
}

func (c *CORSConfig) MaxAgeDuration() time.Duration {
	return time.Duration(c.MaxAge) * time.Second
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
