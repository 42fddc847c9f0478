package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) UpsertProfile(ctx context.Context, p Profile) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO profiles (user_id, first_name, last_name, email, personnel_number)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (user_id) DO UPDATE
    SET first_name = EXCLUDED.first_name,
        last_name = EXCLUDED.last_name,
        email = EXCLUDED.email,
        personnel_number = EXCLUDED.personnel_number,
        updated_at = now()
    RETURNING id
  `, p.UserID, p.FirstName, p.LastName, p.Email, nullIfEmpty(p.PersonnelNumber)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, user_id, first_name, last_name, email,
           COALESCE(personnel_number, ''),
           created_at, updated_at
    FROM profiles
    WHERE user_id = $1
  `, userID)

	var p Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.PersonnelNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, first_name, last_name, email,
           COALESCE(personnel_number, ''),
           created_at, updated_at
    FROM profiles
    ORDER BY last_name, first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.PersonnelNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListPositions(ctx context.Context) ([]Position, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, cycle_length
    FROM positions
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.Name, &p.CycleLength); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AssignPosition retires any active assignment before inserting the new one,
// so the partial unique index on (user_id) WHERE active never trips.
func (s *Store) AssignPosition(ctx context.Context, req AssignmentRequest) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    UPDATE position_assignments
    SET active = FALSE, updated_at = now()
    WHERE user_id = $1 AND active
  `, req.UserID); err != nil {
		return "", err
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO position_assignments (user_id, position_id, work_group, reference_date, reference_week)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, req.UserID, req.PositionID, req.WorkGroup, req.ReferenceDate, req.ReferenceWeek).Scan(&id); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DeactivateAssignment(ctx context.Context, userID string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE position_assignments
    SET active = FALSE, updated_at = now()
    WHERE user_id = $1 AND active
  `, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("no active assignment")
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
