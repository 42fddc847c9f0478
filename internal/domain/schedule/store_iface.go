package schedule

import (
	"context"
	"time"
)

type StoreAPI interface {
	ActiveAssignment(ctx context.Context, userID string) (Assignment, error)
	ListActiveAssignments(ctx context.Context) ([]Assignment, error)
	ActiveSchedule(ctx context.Context, positionID string, workGroup int) (*Schedule, error)
	UpsertSchedule(ctx context.Context, sched Schedule) (string, error)
	DeactivateSchedule(ctx context.Context, scheduleID string) error
	DeleteSchedule(ctx context.Context, scheduleID string) error
	InsertShift(ctx context.Context, shift Shift) (bool, error)
	ListShifts(ctx context.Context, userID string, from, to time.Time) ([]Shift, error)
}
