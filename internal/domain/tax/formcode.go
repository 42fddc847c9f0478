package tax

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"regexp"
)

// Form codes are a shareable handle, not a secret: a fixed-length digest of
// the serialized snapshot over an alphabet without easily confused glyphs.
const (
	codeLength   = 8
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// DeriveCode maps a serialized snapshot to its deterministic share code.
func DeriveCode(serialized []byte) string {
	digest := sha256.Sum256(serialized)
	code := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		code[i] = codeAlphabet[int(digest[i])%len(codeAlphabet)]
	}
	return string(code)
}

func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// LocalStore is the offline fallback: snapshots written to disk keyed by
// their code, good enough for same-device recovery without the database.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

func (l *LocalStore) Save(code string, blob []byte) error {
	if !ValidCode(code) {
		return ErrInvalidCode
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.path(code), blob, 0o600)
}

func (l *LocalStore) Load(code string) ([]byte, error) {
	if !ValidCode(code) {
		return nil, ErrInvalidCode
	}
	blob, err := os.ReadFile(l.path(code))
	if os.IsNotExist(err) {
		return nil, ErrSnapshotNotFound
	}
	return blob, err
}

func (l *LocalStore) path(code string) string {
	return filepath.Join(l.Dir, code+".json")
}
