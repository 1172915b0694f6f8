//go:build !gcloud

package passrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SchedulePassRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule pass recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, schedule pass recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "schedule pass recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordPass(ctx context.Context, record domain.SchedulePassRecord) error {
	passID := record.PassID
	if passID == "" {
		passID = "default"
	}

	point := influxdb2.NewPoint(
		"schedule_pass",
		map[string]string{
			"pass_id":  passID,
			"event_id": record.EventID,
		},
		map[string]any{
			"generated_count":    record.GeneratedCount,
			"deduplicated_count": record.DeduplicatedCount,
			"truncated_count":    record.TruncatedCount,
			"booked_count":       record.BookedCount,
			"cancelled_count":    record.CancelledCount,
			"cancel_failures":    record.CancelFailures,
			"book_failures":      record.BookFailures,
			"permission_granted": record.PermissionGranted,
			"aborted":            record.Aborted,
			"started_unix":       record.StartedAt.Unix(),
		},
		time.Now(),
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write schedule pass to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("event_id", record.EventID),
		)
	}

	return nil
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
