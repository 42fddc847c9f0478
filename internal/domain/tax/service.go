package tax

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	cryptoutil "pendler/internal/platform/crypto"
)

// SnapshotService persists wizard drafts. The remote store is authoritative;
// when it is unreachable the draft lands in the local fallback store and a
// pending entry is kept so the next sync pushes it through.
type SnapshotService struct {
	store  StoreAPI
	local  *LocalStore
	crypto *cryptoutil.Service

	mu      sync.Mutex
	pending map[string]StoredSnapshot // keyed by userID|formType
}

func NewSnapshotService(store StoreAPI, local *LocalStore, crypto *cryptoutil.Service) *SnapshotService {
	return &SnapshotService{
		store:   store,
		local:   local,
		crypto:  crypto,
		pending: map[string]StoredSnapshot{},
	}
}

// Save serializes the wizard state, derives its share code and upserts the
// draft. Repeated calls with unchanged data are harmless overwrites.
func (s *SnapshotService) Save(ctx context.Context, userID string, data TaxWizardData, result TaxCalculationResult) (string, error) {
	snapshot := Snapshot{Data: data, Result: result, SavedAt: time.Now().UTC()}
	blob, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	code := DeriveCode(blob)

	stored := StoredSnapshot{
		UserID:   userID,
		FormType: FormTypeReisepauschale,
		Code:     code,
	}
	if s.crypto != nil && s.crypto.Configured() {
		encrypted, err := s.crypto.Encrypt(blob)
		if err != nil {
			return "", err
		}
		stored.PayloadEnc = encrypted
	} else {
		stored.Payload = blob
	}

	if err := s.store.UpsertSnapshot(ctx, stored); err != nil {
		if localErr := s.local.Save(code, blob); localErr != nil {
			return "", err
		}
		s.remember(stored)
		slog.Warn("snapshot store unavailable, saved to local fallback", "code", code, "err", err)
		return code, nil
	}
	s.forget(stored)
	return code, nil
}

// Load returns the authenticated user's latest draft from the remote store.
func (s *SnapshotService) Load(ctx context.Context, userID string) (Snapshot, string, error) {
	stored, err := s.store.SnapshotByUser(ctx, userID, FormTypeReisepauschale)
	if err != nil {
		return Snapshot{}, "", err
	}
	snapshot, err := s.decode(stored)
	return snapshot, stored.Code, err
}

// LoadByCode resolves a share code, preferring the remote store and falling
// back to the local file store so offline saves stay recoverable.
func (s *SnapshotService) LoadByCode(ctx context.Context, code string) (Snapshot, error) {
	if !ValidCode(code) {
		return Snapshot{}, ErrInvalidCode
	}
	if stored, err := s.store.SnapshotByCode(ctx, code); err == nil {
		return s.decode(stored)
	}
	blob, err := s.local.Load(code)
	if err != nil {
		return Snapshot{}, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// SyncPending retries every draft that previously fell back to local
// storage. Called from the background job loop.
func (s *SnapshotService) SyncPending(ctx context.Context) (flushed int, err error) {
	s.mu.Lock()
	queued := make([]StoredSnapshot, 0, len(s.pending))
	for _, snap := range s.pending {
		queued = append(queued, snap)
	}
	s.mu.Unlock()

	for _, snap := range queued {
		if upsertErr := s.store.UpsertSnapshot(ctx, snap); upsertErr != nil {
			err = upsertErr
			continue
		}
		s.forget(snap)
		flushed++
	}
	return flushed, err
}

func (s *SnapshotService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// SnapshotSource supplies the wizard state for autosave; ready reports
// whether the minimum identifying fields are filled in yet.
type SnapshotSource func(ctx context.Context) (data TaxWizardData, result TaxCalculationResult, ready bool)

// StartAutoSave re-saves the user's draft at the given interval until the
// context is canceled. The returned stop function is idempotent; every
// wizard session must call it so no timer outlives the session.
func (s *SnapshotService) StartAutoSave(ctx context.Context, userID string, interval time.Duration, source SnapshotSource) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				data, result, ready := source(ctx)
				if !ready {
					continue
				}
				if _, err := s.Save(ctx, userID, data, result); err != nil {
					slog.Warn("autosave failed", "userId", userID, "err", err)
				}
			}
		}
	}()
	return cancel
}

// MinimumFieldsPresent gates autosave: a draft without a name and tax ID is
// not worth persisting yet.
func MinimumFieldsPresent(data TaxWizardData) bool {
	return data.Personal.FirstName != "" && data.Personal.LastName != "" && data.Personal.TaxID != ""
}

func (s *SnapshotService) decode(stored StoredSnapshot) (Snapshot, error) {
	blob := stored.Payload
	if len(stored.PayloadEnc) > 0 && s.crypto != nil {
		decrypted, err := s.crypto.Decrypt(stored.PayloadEnc)
		if err != nil {
			return Snapshot{}, err
		}
		blob = decrypted
	}
	var snapshot Snapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (s *SnapshotService) remember(snap StoredSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[snap.UserID+"|"+snap.FormType] = snap
}

func (s *SnapshotService) forget(snap StoredSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, snap.UserID+"|"+snap.FormType)
}
