package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pendler/internal/domain/schedule"
	"pendler/internal/domain/tax"
	"pendler/internal/platform/config"
	"pendler/internal/platform/metrics"
)

const (
	JobShiftGeneration = "shift_generation"
	JobSnapshotSync    = "snapshot_sync"
)

type Service struct {
	DB        *pgxpool.Pool
	Cfg       config.Config
	Schedules *schedule.Service
	Snapshots *tax.SnapshotService
	Metrics   *metrics.Collector
	queue     chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, schedules *schedule.Service, snapshots *tax.SnapshotService, collector *metrics.Collector) *Service {
	return &Service{
		DB:        db,
		Cfg:       cfg,
		Schedules: schedules,
		Snapshots: snapshots,
		Metrics:   collector,
		queue:     make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.GenerateInterval > 0 {
		go s.scheduleGeneration(ctx, s.Cfg.GenerateInterval)
	}
	if s.Cfg.SnapshotSyncInterval > 0 {
		go s.scheduleSnapshotSync(ctx, s.Cfg.SnapshotSyncInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleGeneration periodically extends every assigned worker's shifts out
// to the configured horizon. Generation is idempotent, so overlapping runs
// only skip already-covered days.
func (s *Service) scheduleGeneration(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobShiftGeneration, func(ctx context.Context) (any, error) {
				start := time.Now()
				end := start.AddDate(0, 0, s.Cfg.GenerateHorizonDays)
				result, err := s.Schedules.GenerateAllShifts(ctx, start, end)
				if err != nil {
					return nil, err
				}
				if s.Metrics != nil {
					s.Metrics.RecordShiftsGenerated(result.Generated)
				}
				return map[string]any{
					"generated":       result.Generated,
					"skipped":         result.Skipped,
					"successfulUsers": result.SuccessfulUsers,
					"failedUsers":     result.FailedUsers,
				}, nil
			})
		}
	}
}

// scheduleSnapshotSync flushes wizard drafts that only reached the local
// fallback store while the database was unavailable.
func (s *Service) scheduleSnapshotSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.Snapshots.PendingCount() == 0 {
				continue
			}
			s.Enqueue(JobSnapshotSync, func(ctx context.Context) (any, error) {
				flushed, err := s.Snapshots.SyncPending(ctx)
				return map[string]any{"flushed": flushed}, err
			})
		}
	}
}
