package tax

import "errors"

var (
	ErrSnapshotNotFound = errors.New("form snapshot not found")
	ErrInvalidCode      = errors.New("form code must be 8 alphanumeric characters")
	ErrValidationFailed = errors.New("form data failed validation")
)
