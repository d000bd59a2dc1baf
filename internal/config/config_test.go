package config

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "REDIS_ADDR", "REDIS_DB",
		"NOTICE_TTL_SECONDS", "SUBSCRIPTION_RETRY_DELAY_MS",
		"SCHEDULE_GRACE_MINUTES", "UPCOMING_LIMIT", "SCHEDULE_TIMEZONE",
		"SCHEDULE_DB_DRIVER", "SCHEDULE_DB_DSN",
		"DISPATCH_WORKERS", "DISPATCH_QUEUE_SIZE", "PUSH_TRANSPORT",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Listener.NoticeTTL != 5*time.Second {
		t.Errorf("Listener.NoticeTTL = %v, want 5s", cfg.Listener.NoticeTTL)
	}
	if cfg.Listener.RetryDelay != time.Second {
		t.Errorf("Listener.RetryDelay = %v, want 1s", cfg.Listener.RetryDelay)
	}
	if cfg.Schedule.GraceMinutes != 3 || cfg.Schedule.UpcomingLimit != 3 {
		t.Errorf("Schedule = %+v, want grace 3 limit 3", cfg.Schedule)
	}
	if cfg.Schedule.DBDriver != "sqlite" || cfg.Schedule.DBDSN != "attendance.db" {
		t.Errorf("Schedule db = %s %s", cfg.Schedule.DBDriver, cfg.Schedule.DBDSN)
	}
	if cfg.Dispatch.Workers != 4 || cfg.Dispatch.QueueSize != 256 {
		t.Errorf("Dispatch = %+v, want 4 workers 256 queue", cfg.Dispatch)
	}
	if cfg.Push.Kind != pushtransport.KindTasks {
		t.Errorf("Push.Kind = %q, want tasks", cfg.Push.Kind)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NOTICE_TTL_SECONDS", "10")
	t.Setenv("SUBSCRIPTION_RETRY_DELAY_MS", "250")
	t.Setenv("SCHEDULE_GRACE_MINUTES", "0")
	t.Setenv("UPCOMING_LIMIT", "5")
	t.Setenv("SCHEDULE_TIMEZONE", "Asia/Manila")
	t.Setenv("DISPATCH_WORKERS", "8")
	t.Setenv("DISPATCH_QUEUE_SIZE", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Listener.NoticeTTL != 10*time.Second {
		t.Errorf("NoticeTTL = %v, want 10s", cfg.Listener.NoticeTTL)
	}
	if cfg.Listener.RetryDelay != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 250ms", cfg.Listener.RetryDelay)
	}
	if cfg.Schedule.GraceMinutes != 0 {
		t.Errorf("GraceMinutes = %d, want 0", cfg.Schedule.GraceMinutes)
	}
	if cfg.Schedule.UpcomingLimit != 5 {
		t.Errorf("UpcomingLimit = %d, want 5", cfg.Schedule.UpcomingLimit)
	}
	if cfg.Schedule.Location.String() != "Asia/Manila" {
		t.Errorf("Location = %s, want Asia/Manila", cfg.Schedule.Location)
	}
	if cfg.Dispatch.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Dispatch.Workers)
	}
	if cfg.Dispatch.QueueSize != 256 {
		t.Errorf("QueueSize = %d, want default 256 for invalid value", cfg.Dispatch.QueueSize)
	}
}

func TestRedisConfig_Options(t *testing.T) {
	plain := (&RedisConfig{Addr: "redis:6379", Password: "secret", DB: 2}).Options()
	if plain.Addr != "redis:6379" || plain.Password != "secret" || plain.DB != 2 {
		t.Errorf("Options() = %+v", plain)
	}
	if plain.TLSConfig != nil {
		t.Error("TLSConfig set without TLS")
	}

	secure := (&RedisConfig{Addr: "redis:6378", TLS: true}).Options()
	if secure.TLSConfig == nil || secure.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Errorf("TLSConfig = %+v, want TLS 1.2 minimum", secure.TLSConfig)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "bad redis db", key: "REDIS_DB", value: "one", wantErr: ErrInvalidRedisDB},
		{name: "negative redis db", key: "REDIS_DB", value: "-1", wantErr: ErrInvalidRedisDB},
		{name: "bad timezone", key: "SCHEDULE_TIMEZONE", value: "Mars/Olympus", wantErr: ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForRun(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Redis:    &RedisConfig{Addr: "localhost:6379"},
			Schedule: &ScheduleConfig{DBDriver: "postgres", DBDSN: "postgres://localhost/attendance"},
			Push:     &pushtransport.Config{Kind: pushtransport.KindLog},
		}
	}

	if err := ValidateForRun(valid()); err != nil {
		t.Errorf("ValidateForRun(valid) error = %v", err)
	}

	cfg := valid()
	cfg.Redis.Addr = ""
	cfg.Schedule.DBDriver = "mysql"
	cfg.Push = nil

	err := ValidateForRun(cfg)
	for _, want := range []error{ErrRedisAddrMissing, ErrUnknownScheduleDB, ErrPushConfigMissing} {
		if !errors.Is(err, want) {
			t.Errorf("ValidateForRun() error = %v, want it to include %v", err, want)
		}
	}
}
