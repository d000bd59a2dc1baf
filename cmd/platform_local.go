//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/logging"
)

func initTasksTransport(_ context.Context, cfg *pushtransport.Config) (pushtransport.Transport, func() error, error) {
	if cfg.PrimindTasksURL == "" {
		slog.Warn("PRIMIND_TASKS_URL not set, push notifications will only be logged")

		return pushtransport.NewLogTransport(), nil, nil
	}

	tq := pushtransport.NewPrimindTasksClient(
		cfg.PrimindTasksURL,
		cfg.QueueName,
		cfg.MaxRetries,
	)

	slog.Info("push transport initialized",
		slog.String("type", tq.Name()),
		slog.String("url", cfg.PrimindTasksURL),
		slog.String("queue", cfg.QueueName),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "attendance-alerts"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: moduleName,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
