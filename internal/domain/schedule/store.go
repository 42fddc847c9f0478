package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ActiveAssignment(ctx context.Context, userID string) (Assignment, error) {
	var out Assignment
	err := s.DB.QueryRow(ctx, `
    SELECT a.user_id, a.position_id::text, a.work_group, a.reference_date, a.reference_week, p.cycle_length
    FROM position_assignments a
    JOIN positions p ON a.position_id = p.id
    WHERE a.user_id = $1 AND a.active
  `, userID).Scan(&out.UserID, &out.PositionID, &out.WorkGroup, &out.ReferenceDate, &out.ReferenceWeek, &out.CycleLength)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, ErrNoAssignment
	}
	if err != nil {
		return Assignment{}, err
	}
	return out, nil
}

func (s *Store) ListActiveAssignments(ctx context.Context) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.user_id, a.position_id::text, a.work_group, a.reference_date, a.reference_week, p.cycle_length
    FROM position_assignments a
    JOIN positions p ON a.position_id = p.id
    WHERE a.active
    ORDER BY a.user_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.UserID, &a.PositionID, &a.WorkGroup, &a.ReferenceDate, &a.ReferenceWeek, &a.CycleLength); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) ActiveSchedule(ctx context.Context, positionID string, workGroup int) (*Schedule, error) {
	var sched Schedule
	var weeksJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, position_id::text, work_group, name, reference_date, reference_week, calendar_week, weeks, active
    FROM schedules
    WHERE position_id = $1 AND work_group = $2 AND active
    ORDER BY updated_at DESC
    LIMIT 1
  `, positionID, workGroup).Scan(
		&sched.ID, &sched.PositionID, &sched.WorkGroup, &sched.Name,
		&sched.ReferenceDate, &sched.ReferenceWeek, &sched.CalendarWeek, &weeksJSON, &sched.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weeksJSON, &sched.Weeks); err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Store) UpsertSchedule(ctx context.Context, sched Schedule) (string, error) {
	weeksJSON, err := json.Marshal(sched.Weeks)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO schedules (position_id, work_group, name, reference_date, reference_week, calendar_week, weeks, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (calendar_week, position_id, work_group) DO UPDATE
    SET name = EXCLUDED.name,
        reference_date = EXCLUDED.reference_date,
        reference_week = EXCLUDED.reference_week,
        weeks = EXCLUDED.weeks,
        active = EXCLUDED.active,
        updated_at = now()
    RETURNING id
  `, sched.PositionID, sched.WorkGroup, sched.Name, sched.ReferenceDate, sched.ReferenceWeek,
		sched.CalendarWeek, weeksJSON, sched.Active,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DeactivateSchedule(ctx context.Context, scheduleID string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE schedules SET active = FALSE, updated_at = now() WHERE id = $1
  `, scheduleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoSchedule
	}
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, scheduleID string) error {
	cmd, err := s.DB.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, scheduleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoSchedule
	}
	return nil
}

// InsertShift writes one concrete shift row. The unique (user_id, work_date)
// constraint makes regeneration idempotent across processes; a conflicting
// row reports inserted=false, never an error.
func (s *Store) InsertShift(ctx context.Context, shift Shift) (bool, error) {
	cmd, err := s.DB.Exec(ctx, `
    INSERT INTO shifts (user_id, work_date, start_time, end_time, shift_type, cycle_week)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (user_id, work_date) DO NOTHING
  `, shift.UserID, shift.Date, nullIfEmpty(shift.StartTime), nullIfEmpty(shift.EndTime), string(shift.Type), shift.CycleWeek)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Store) ListShifts(ctx context.Context, userID string, from, to time.Time) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, user_id, work_date,
           COALESCE(start_time, ''), COALESCE(end_time, ''),
           shift_type, cycle_week, edited
    FROM shifts
    WHERE user_id = $1 AND work_date BETWEEN $2 AND $3
    ORDER BY work_date
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var shift Shift
		var shiftType string
		if err := rows.Scan(&shift.ID, &shift.UserID, &shift.Date, &shift.StartTime, &shift.EndTime, &shiftType, &shift.CycleWeek, &shift.Edited); err != nil {
			return nil, err
		}
		shift.Type = ShiftType(shiftType)
		out = append(out, shift)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
