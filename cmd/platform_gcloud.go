//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/logging"
)

func initTasksTransport(ctx context.Context, cfg *pushtransport.Config) (pushtransport.Transport, func() error, error) {
	cloudTasksClient, err := pushtransport.NewCloudTasksClient(ctx, pushtransport.CloudTasksConfig{
		ProjectID:  cfg.GCloudProjectID,
		LocationID: cfg.GCloudLocationID,
		QueueID:    cfg.GCloudQueueID,
		TargetURL:  cfg.GCloudTargetURL,
		MaxRetries: cfg.MaxRetries,
		Endpoint:   cfg.CloudTasksEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("push transport initialized",
		slog.String("type", cloudTasksClient.Name()),
		slog.String("project", cfg.GCloudProjectID),
		slog.String("location", cfg.GCloudLocationID),
		slog.String("queue", cfg.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksClient.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksClient, cleanup, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "attendance-alerts"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: moduleName,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
