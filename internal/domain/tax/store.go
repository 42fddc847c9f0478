package tax

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// UpsertSnapshot keeps exactly one draft per (user, form type); the latest
// write wins, there is no version history.
func (s *Store) UpsertSnapshot(ctx context.Context, snap StoredSnapshot) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO form_snapshots (user_id, form_type, code, payload, payload_enc)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (user_id, form_type) DO UPDATE
    SET code = EXCLUDED.code,
        payload = EXCLUDED.payload,
        payload_enc = EXCLUDED.payload_enc,
        updated_at = now()
  `, snap.UserID, snap.FormType, snap.Code, nullIfEmptyBytes(snap.Payload), nullIfEmptyBytes(snap.PayloadEnc))
	return err
}

func (s *Store) SnapshotByUser(ctx context.Context, userID, formType string) (StoredSnapshot, error) {
	return s.scanSnapshot(s.DB.QueryRow(ctx, `
    SELECT user_id, form_type, code, COALESCE(payload, 'null'::jsonb), payload_enc, updated_at
    FROM form_snapshots
    WHERE user_id = $1 AND form_type = $2
  `, userID, formType))
}

func (s *Store) SnapshotByCode(ctx context.Context, code string) (StoredSnapshot, error) {
	return s.scanSnapshot(s.DB.QueryRow(ctx, `
    SELECT user_id, form_type, code, COALESCE(payload, 'null'::jsonb), payload_enc, updated_at
    FROM form_snapshots
    WHERE code = $1
    ORDER BY updated_at DESC
    LIMIT 1
  `, code))
}

func (s *Store) scanSnapshot(row pgx.Row) (StoredSnapshot, error) {
	var snap StoredSnapshot
	err := row.Scan(&snap.UserID, &snap.FormType, &snap.Code, &snap.Payload, &snap.PayloadEnc, &snap.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredSnapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return StoredSnapshot{}, err
	}
	return snap, nil
}

func nullIfEmptyBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return value
}
