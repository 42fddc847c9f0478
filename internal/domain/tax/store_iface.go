package tax

import (
	"context"
	"time"
)

type StoredSnapshot struct {
	UserID     string
	FormType   string
	Code       string
	Payload    []byte
	PayloadEnc []byte
	UpdatedAt  time.Time
}

type StoreAPI interface {
	UpsertSnapshot(ctx context.Context, snap StoredSnapshot) error
	SnapshotByUser(ctx context.Context, userID, formType string) (StoredSnapshot, error)
	SnapshotByCode(ctx context.Context, code string) (StoredSnapshot, error)
}
