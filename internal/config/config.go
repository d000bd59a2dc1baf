package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
)

type Config struct {
	Port     string
	LogLevel slog.Level
	Redis    *RedisConfig
	Listener *ListenerConfig
	Schedule *ScheduleConfig
	Dispatch *DispatchConfig
	Push     *pushtransport.Config
}

// Load reads the process environment. A .env file in the working
// directory, when present, fills variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := LoadScheduleConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		Redis:    redisConfig,
		Listener: LoadListenerConfig(),
		Schedule: scheduleConfig,
		Dispatch: LoadDispatchConfig(),
		Push:     pushtransport.LoadConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
