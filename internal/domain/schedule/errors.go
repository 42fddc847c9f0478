package schedule

import "errors"

var (
	ErrNoAssignment  = errors.New("no active position assignment for user")
	ErrNoSchedule    = errors.New("no active schedule for position")
	ErrInvalidRange  = errors.New("start date must be on or before end date")
	ErrEmptySchedule = errors.New("schedule has no entries")
)

// ParseError reports a malformed schedule upload with a message fit for
// surfacing to the user.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}
