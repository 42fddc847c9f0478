package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ShiftRegister(ctx context.Context, from, to time.Time) ([]ShiftRegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.user_id,
           COALESCE(p.first_name, ''),
           COALESCE(p.last_name, ''),
           COALESCE(p.personnel_number, ''),
           sh.work_date,
           sh.shift_type,
           COALESCE(sh.start_time, ''),
           COALESCE(sh.end_time, ''),
           sh.cycle_week,
           sh.edited
    FROM shifts sh
    LEFT JOIN profiles p ON p.user_id = sh.user_id
    WHERE sh.work_date >= $1 AND sh.work_date <= $2
    ORDER BY sh.work_date, p.last_name, p.first_name
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShiftRegisterRow
	for rows.Next() {
		var r ShiftRegisterRow
		if err := rows.Scan(&r.UserID, &r.FirstName, &r.LastName, &r.PersonnelNumber, &r.WorkDate, &r.ShiftType, &r.StartTime, &r.EndTime, &r.CycleWeek, &r.Edited); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	summary := Summary{ShiftsByType: map[string]int{}}

	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT user_id), COUNT(1)
    FROM shifts
    WHERE work_date >= $1 AND work_date <= $2
  `, from, to).Scan(&summary.Workers, &summary.ShiftsTotal); err != nil {
		return Summary{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT shift_type, COUNT(1)
    FROM shifts
    WHERE work_date >= $1 AND work_date <= $2
    GROUP BY shift_type
  `, from, to)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var shiftType string
		var count int
		if err := rows.Scan(&shiftType, &count); err != nil {
			return Summary{}, err
		}
		summary.ShiftsByType[shiftType] = count
	}
	return summary, rows.Err()
}

func (s *Store) ListJobRuns(ctx context.Context, jobType string, limit, offset int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE ($1 = '' OR job_type = $1)
    ORDER BY started_at DESC
    LIMIT $2 OFFSET $3
  `, jobType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var (
			id, runType, status string
			details             map[string]any
			startedAt           time.Time
			completedAt         *time.Time
		)
		if err := rows.Scan(&id, &runType, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"id":          id,
			"jobType":     runType,
			"status":      status,
			"details":     details,
			"startedAt":   startedAt,
			"completedAt": completedAt,
		})
	}
	return out, rows.Err()
}
