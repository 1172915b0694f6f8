//go:build gcloud

package passrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/daymark-app/milestone-scheduling/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt        time.Time `bigquery:"recorded_at"`
	PassID            string    `bigquery:"pass_id"`
	EventID           string    `bigquery:"event_id"`
	StartedAt         time.Time `bigquery:"started_at"`
	GeneratedCount    int64     `bigquery:"generated_count"`
	DeduplicatedCount int64     `bigquery:"deduplicated_count"`
	TruncatedCount    int64     `bigquery:"truncated_count"`
	BookedCount       int64     `bigquery:"booked_count"`
	CancelledCount    int64     `bigquery:"cancelled_count"`
	CancelFailures    int64     `bigquery:"cancel_failures"`
	BookFailures      int64     `bigquery:"book_failures"`
	PermissionGranted bool      `bigquery:"permission_granted"`
	Aborted           bool      `bigquery:"aborted"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.SchedulePassRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule pass recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, schedule pass recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, schedule pass recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "schedule pass recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordPass(ctx context.Context, record domain.SchedulePassRecord) error {
	bqRecord := &bigQueryRecord{
		RecordedAt:        time.Now(),
		PassID:            record.PassID,
		EventID:           record.EventID,
		StartedAt:         record.StartedAt,
		GeneratedCount:    int64(record.GeneratedCount),
		DeduplicatedCount: int64(record.DeduplicatedCount),
		TruncatedCount:    int64(record.TruncatedCount),
		BookedCount:       int64(record.BookedCount),
		CancelledCount:    int64(record.CancelledCount),
		CancelFailures:    int64(record.CancelFailures),
		BookFailures:      int64(record.BookFailures),
		PermissionGranted: record.PermissionGranted,
		Aborted:           record.Aborted,
	}

	if err := r.inserter.Put(ctx, []*bigQueryRecord{bqRecord}); err != nil {
		slog.WarnContext(ctx, "failed to insert schedule pass to BigQuery",
			slog.String("error", err.Error()),
			slog.String("event_id", record.EventID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
