package utils

import (
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	port string

	dbPath      string
	sourcesFile string

	location    *time.Location
	refreshCron string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		dbPath: func() string {
			dbPath := os.Getenv("DB_PATH")
			if dbPath == "" {
				dbPath = "./sqlite.db"
			}
			slog.Debug("env", "DB_PATH", dbPath)
			return dbPath
		}(),
		sourcesFile: func() string {
			sourcesFile := os.Getenv("SOURCES_FILE")
			if sourcesFile == "" {
				sourcesFile = "./sources.yaml"
			}
			slog.Debug("env", "SOURCES_FILE", sourcesFile)
			return sourcesFile
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		refreshCron: func() string {
			refreshCron := os.Getenv("REFRESH_CRON")
			if refreshCron == "" {
				refreshCron = "*/15 * * * *"
			}
			if _, err := cron.ParseStandard(refreshCron); err != nil {
				slog.Error("invalid REFRESH_CRON", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "REFRESH_CRON", refreshCron)
			return refreshCron
		}(),

		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "15s"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricCollectionInterval, "duration", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DB_PATH env, default to ./sqlite.db
func (c *Config) GetDBPath() string {
	return c.dbPath
}

// Get SOURCES_FILE env, default to ./sources.yaml
func (c *Config) GetSourcesFile() string {
	return c.sourcesFile
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get REFRESH_CRON env, default to every 15 minutes
func (c *Config) GetRefreshCron() string {
	return c.refreshCron
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
