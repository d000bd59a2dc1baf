//go:build !gcloud

package deliveryrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/domain"
)

const influxMeasurement = "push_delivery"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
	runID    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.DeliveryRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "delivery result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, delivery result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "delivery result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
		runID:    cfg.RunID,
	}, nil
}

func (r *influxDBRecorder) RecordDeliveries(ctx context.Context, records []domain.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		if err := r.writeAPI.WritePoint(ctx, deliveryPoint(record, r.runID)); err != nil {
			slog.WarnContext(ctx, "failed to write delivery result to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("delivery_id", record.DeliveryID),
				slog.String("outcome", string(record.Outcome)),
			)
		}
	}

	return nil
}

func deliveryPoint(record domain.DeliveryRecord, runID string) *write.Point {
	if runID == "" {
		runID = "default"
	}

	pointTime := record.CompletedAt
	if pointTime.IsZero() {
		pointTime = time.Now()
	}

	fields := map[string]any{
		"delivery_id": record.DeliveryID,
		"alert_id":    record.AlertID,
		"target_id":   record.TargetID,
		"latency_ms":  record.Latency().Milliseconds(),
	}
	if record.Error != "" {
		fields["error"] = record.Error
	}

	return influxdb2.NewPoint(
		influxMeasurement,
		map[string]string{
			"run_id":     runID,
			"role":       record.Role,
			"alert_type": record.AlertType,
			"outcome":    string(record.Outcome),
			"transport":  record.Transport,
		},
		fields,
		pointTime,
	)
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
