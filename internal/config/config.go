package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"weeklybudget/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Shared store
	StoreBackend string
	SQLiteDBPath string
	RedisURL     string

	// AMQP (widget refresh notifications)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Week boundary policy
	WeekStartHour    int
	WeekStartWeekday string
	Timezone         string

	// Rollover ticker
	RolloverCheckInterval time.Duration

	// History export
	HistoryExport       string
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8082"),
		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/weeklybudget.db"),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "weeklybudget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "widget_refresh"),

		WeekStartHour:    getEnvInt("WEEK_START_HOUR", 7),
		WeekStartWeekday: getEnv("WEEK_START_WEEKDAY", "monday"),
		Timezone:         getEnv("TIMEZONE", "UTC"),

		RolloverCheckInterval: getEnvDuration("ROLLOVER_CHECK_INTERVAL", time.Minute),

		HistoryExport:       getEnv("HISTORY_EXPORT", "none"),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),
	}
}

// Validate checks the configuration and returns all complaints at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StoreBackend {
	case "memory", "sqlite", "redis":
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of [memory sqlite redis]", c.StoreBackend))
	}

	if c.StoreBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.StoreBackend == "redis" && c.RedisURL == "" {
		errs = append(errs, "Redis URL cannot be empty when using redis backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.WeekStartHour < 0 || c.WeekStartHour > 23 {
		errs = append(errs, fmt.Sprintf("invalid week start hour %d: must be between 0 and 23", c.WeekStartHour))
	}
	if _, err := parseWeekday(c.WeekStartWeekday); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.RolloverCheckInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid rollover check interval %v: must be at least 1 second", c.RolloverCheckInterval))
	} else if c.RolloverCheckInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid rollover check interval %v: must be at most 24 hours", c.RolloverCheckInterval))
	}

	switch c.HistoryExport {
	case "none", "sheets":
	default:
		errs = append(errs, fmt.Sprintf("invalid history export '%s': must be one of [none sheets]", c.HistoryExport))
	}
	if c.HistoryExport == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "Google Spreadsheet ID is required when history export is 'sheets'")
		}
		if c.GoogleSheetName == "" {
			errs = append(errs, "Google Sheet name is required when history export is 'sheets'")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Calendar builds the pinned week-boundary policy from the config.
func (c *Config) Calendar() (core.Calendar, error) {
	weekday, err := parseWeekday(c.WeekStartWeekday)
	if err != nil {
		return core.Calendar{}, err
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return core.Calendar{}, fmt.Errorf("load timezone: %w", err)
	}
	return core.Calendar{
		StartWeekday: weekday,
		StartHour:    c.WeekStartHour,
		Location:     loc,
	}, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid week start weekday '%s'", s)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
