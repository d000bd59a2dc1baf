package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name       string
		scheduleDB Pinger
		wantStatus Status
		wantChecks int
	}{
		{
			name:       "no dependencies",
			wantStatus: StatusHealthy,
			wantChecks: 0,
		},
		{
			name:       "schedule db healthy",
			scheduleDB: pingerFunc(func(context.Context) error { return nil }),
			wantStatus: StatusHealthy,
			wantChecks: 1,
		},
		{
			name:       "schedule db down",
			scheduleDB: pingerFunc(func(context.Context) error { return errors.New("database is locked") }),
			wantStatus: StatusUnhealthy,
			wantChecks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(nil, tt.scheduleDB, "test")
			got := c.Check(context.Background())

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tt.wantStatus)
			}
			if len(got.Checks) != tt.wantChecks {
				t.Errorf("len(Checks) = %d, want %d", len(got.Checks), tt.wantChecks)
			}
			if got.Version != "test" {
				t.Errorf("Version = %q, want test", got.Version)
			}
		})
	}
}

func TestChecker_ReadyHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	down := NewChecker(nil, pingerFunc(func(context.Context) error { return errors.New("down") }), "v1")

	r := gin.New()
	r.GET("/health/ready", down.ReadyHandler())
	r.GET("/health/live", down.LiveHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var body HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Checks["schedule_db"].Error != "down" {
		t.Errorf("schedule_db error = %q, want down", body.Checks["schedule_db"].Error)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", w.Code)
	}
}

func TestGRPCChecker(t *testing.T) {
	healthy := &grpcChecker{checker: NewChecker(nil, nil, "v1")}
	unhealthy := &grpcChecker{checker: NewChecker(nil, pingerFunc(func(context.Context) error { return errors.New("down") }), "v1")}

	tests := []struct {
		name    string
		checker *grpcChecker
		service string
		want    grpchealth.Status
	}{
		{name: "whole server serving", checker: healthy, service: "", want: grpchealth.StatusServing},
		{name: "named service serving", checker: healthy, service: AlertsServiceName, want: grpchealth.StatusServing},
		{name: "dependency down", checker: unhealthy, service: "", want: grpchealth.StatusNotServing},
		{name: "unknown service", checker: healthy, service: "other.v1", want: grpchealth.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.checker.Check(context.Background(), &grpchealth.CheckRequest{Service: tt.service})
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("Status = %v, want %v", resp.Status, tt.want)
			}
		})
	}
}
