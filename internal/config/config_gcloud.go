//go:build gcloud

package config

import (
	"errors"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
)

func validatePlatform(cfg *Config) []error {
	var errs []error

	if cfg.Push.Kind == pushtransport.KindTasks {
		if cfg.Push.GCloudProjectID == "" {
			errs = append(errs, errors.New("GCLOUD_PROJECT_ID is required"))
		}
		if cfg.Push.GCloudLocationID == "" {
			errs = append(errs, errors.New("GCLOUD_LOCATION_ID is required"))
		}
		if cfg.Push.GCloudQueueID == "" {
			errs = append(errs, errors.New("GCLOUD_QUEUE_ID is required"))
		}
		if cfg.Push.GCloudTargetURL == "" {
			errs = append(errs, errors.New("GCLOUD_TARGET_URL is required"))
		}
	}

	// the container filesystem does not outlive a revision
	if cfg.Schedule != nil && cfg.Schedule.DBDriver == "sqlite" {
		errs = append(errs, errors.New("SCHEDULE_DB_DRIVER must be postgres on gcloud"))
	}

	return errs
}
