package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                  "8082",
		StoreBackend:          "memory",
		WeekStartHour:         7,
		WeekStartWeekday:      "monday",
		Timezone:              "UTC",
		RolloverCheckInterval: time.Minute,
		HistoryExport:         "none",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid memory config",
			mutate: func(*Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000",
		},
		{
			name:        "invalid store backend",
			mutate:      func(c *Config) { c.StoreBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid store backend 'postgres'",
		},
		{
			name: "redis backend requires url",
			mutate: func(c *Config) {
				c.StoreBackend = "redis"
				c.RedisURL = ""
			},
			wantErr:     true,
			errorString: "Redis URL cannot be empty",
		},
		{
			name:        "invalid AMQP scheme",
			mutate:      func(c *Config) { c.AMQPURL = "http://localhost:5672" },
			wantErr:     true,
			errorString: "invalid AMQP URL scheme",
		},
		{
			name:        "week start hour out of range",
			mutate:      func(c *Config) { c.WeekStartHour = 24 },
			wantErr:     true,
			errorString: "invalid week start hour 24",
		},
		{
			name:        "invalid weekday",
			mutate:      func(c *Config) { c.WeekStartWeekday = "someday" },
			wantErr:     true,
			errorString: "invalid week start weekday 'someday'",
		},
		{
			name:        "invalid timezone",
			mutate:      func(c *Config) { c.Timezone = "Nowhere/Land" },
			wantErr:     true,
			errorString: "invalid timezone",
		},
		{
			name:        "rollover interval too short",
			mutate:      func(c *Config) { c.RolloverCheckInterval = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name: "sheets export requires spreadsheet id",
			mutate: func(c *Config) {
				c.HistoryExport = "sheets"
				c.GoogleSheetName = "History"
			},
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_Calendar(t *testing.T) {
	cfg := validConfig()
	cfg.WeekStartWeekday = "sunday"
	cfg.WeekStartHour = 0
	cfg.Timezone = "Asia/Seoul"

	cal, err := cfg.Calendar()
	if err != nil {
		t.Fatalf("Calendar() = %v", err)
	}
	if cal.StartWeekday != time.Sunday || cal.StartHour != 0 {
		t.Errorf("calendar policy = %v/%d", cal.StartWeekday, cal.StartHour)
	}
	if cal.Location.String() != "Asia/Seoul" {
		t.Errorf("location = %s", cal.Location)
	}
}
