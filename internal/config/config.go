package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	S3       S3Config
	App      AppConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	VerifyCodeTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
}

type AppConfig struct {
	FrontendBaseURL   string
	AllowedOrigins    []string
	DailyReachOuts    int
	CandidatePoolCap  int
	MaintenancePeriod time.Duration
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("JWT_ACCESS_EXPIRY_HOURS", 72)
	viper.SetDefault("VERIFY_CODE_TTL_MIN", 30)
	viper.SetDefault("DAILY_REACH_OUT_LIMIT", 5)
	viper.SetDefault("CANDIDATE_POOL_CAP", 1000)
	viper.SetDefault("MAINTENANCE_PERIOD_HOURS", 24)

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  time.Duration(viper.GetInt("JWT_ACCESS_EXPIRY_HOURS")) * time.Hour,
			VerifyCodeTTL: time.Duration(viper.GetInt("VERIFY_CODE_TTL_MIN")) * time.Minute,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		S3: S3Config{
			Region:          viper.GetString("AWS_REGION"),
			Bucket:          viper.GetString("S3_BUCKET"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			PublicBaseURL:   viper.GetString("S3_PUBLIC_BASE_URL"),
		},
		App: AppConfig{
			FrontendBaseURL:   viper.GetString("FRONTEND_BASE_URL"),
			AllowedOrigins:    viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			DailyReachOuts:    viper.GetInt("DAILY_REACH_OUT_LIMIT"),
			CandidatePoolCap:  viper.GetInt("CANDIDATE_POOL_CAP"),
			MaintenancePeriod: time.Duration(viper.GetInt("MAINTENANCE_PERIOD_HOURS")) * time.Hour,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.From == "" {
		return fmt.Errorf("SMTP from address is required")
	}
	if c.App.FrontendBaseURL == "" {
		return fmt.Errorf("frontend base URL is required")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
