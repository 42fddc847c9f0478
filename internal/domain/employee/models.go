package employee

import "time"

type Profile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	PersonnelNumber string    `json:"personnelNumber,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Position struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CycleLength int    `json:"cycleLength"`
}

// AssignmentRequest pins a worker to a position rotation: which work group
// they belong to and which cycle week was running on the reference date.
type AssignmentRequest struct {
	UserID        string    `json:"userId"`
	PositionID    string    `json:"positionId"`
	WorkGroup     int       `json:"workGroup"`
	ReferenceDate time.Time `json:"referenceDate"`
	ReferenceWeek int       `json:"referenceWeek"`
}
