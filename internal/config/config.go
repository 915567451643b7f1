package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const DefaultSalesTable = "tbl_supermarket_sales"

type Config struct {
	Port string

	// DatabaseURL takes precedence over the individual DB_* settings when set.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBTimeZone  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	SalesTable string
	LogLevel   string
}

// Load builds a Config from environment variables. Defaults match the local docker setup.
func Load() (*Config, error) {
	cfg := Config{
		Port:            "3000",
		DBHost:          "localhost",
		DBPort:          "5432",
		DBUser:          "postgres",
		DBPassword:      "postgres",
		DBName:          "postgres",
		DBSSLMode:       "disable",
		DBTimeZone:      "UTC",
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		SalesTable:      DefaultSalesTable,
		LogLevel:        "info",
	}

	setString(&cfg.Port, "PORT")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSLMODE")
	setString(&cfg.DBTimeZone, "DB_TIMEZONE")
	setString(&cfg.SalesTable, "SALES_TABLE")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if err := setInt(&cfg.MaxIdleConns, "DB_MAX_IDLE_CONNS"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.MaxOpenConns, "DB_MAX_OPEN_CONNS"); err != nil {
		return nil, err
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: DB_CONN_MAX_LIFETIME: %w", err)
		}
		cfg.ConnMaxLifetime = d
	}

	return &cfg, nil
}

// DSN returns the postgres connection string for gorm.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone,
	)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if len(v) == 0 {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
