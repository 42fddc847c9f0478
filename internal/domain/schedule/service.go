package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// ImportParsed persists a parsed upload as an active schedule for the given
// position. Records are folded into the cycle-week keyed payload; the
// earliest record anchors the reference point.
func (s *Service) ImportParsed(ctx context.Context, positionID string, workGroup int, name string, result *ParseResult) (string, error) {
	if len(result.Records) == 0 {
		return "", ErrEmptySchedule
	}

	weeks := map[int]map[string]Entry{}
	refDate := result.Records[0].Date
	refWeek := result.Records[0].CycleWeek
	for _, record := range result.Records {
		if record.Date.Before(refDate) {
			refDate = record.Date
			refWeek = record.CycleWeek
		}
		week := weeks[record.CycleWeek]
		if week == nil {
			week = map[string]Entry{}
			weeks[record.CycleWeek] = week
		}
		week[record.Day] = Entry{Start: record.StartTime, End: record.EndTime, Type: record.Type}
	}

	return s.store.UpsertSchedule(ctx, Schedule{
		PositionID:    positionID,
		WorkGroup:     workGroup,
		Name:          name,
		ReferenceDate: mondayOf(refDate),
		ReferenceWeek: refWeek,
		CalendarWeek:  result.CalendarWeek,
		Weeks:         weeks,
		Active:        true,
	})
}

// GenerateUserShifts projects the user's cyclic schedule onto every date in
// the inclusive range. Existing shifts, off days and unmatched cycle weeks
// are skipped, never failed; re-running over the same range is idempotent
// because the store refuses duplicate (user, date) rows.
func (s *Service) GenerateUserShifts(ctx context.Context, userID string, start, end time.Time) (GenerateResult, error) {
	if end.Before(start) {
		return GenerateResult{}, ErrInvalidRange
	}

	assignment, err := s.store.ActiveAssignment(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoAssignment) {
			return GenerateResult{Success: false, Message: "no active position assignment for user"}, nil
		}
		return GenerateResult{}, err
	}

	sched, err := s.store.ActiveSchedule(ctx, assignment.PositionID, assignment.WorkGroup)
	if err != nil {
		return GenerateResult{}, err
	}
	if sched == nil {
		return GenerateResult{Success: false, Message: "no active schedule for the assigned work group"}, nil
	}

	cycleLength := assignment.CycleLength
	if cycleLength <= 0 {
		cycleLength = DefaultCycleLength
	}

	result := GenerateResult{Success: true}
	for date := startOfDay(start); !date.After(end); date = date.AddDate(0, 0, 1) {
		week := cycleWeekFor(assignment.ReferenceDate, assignment.ReferenceWeek, cycleLength, date)
		entry, ok := sched.Weeks[week][weekdayName(date)]
		if !ok || entry.Type == ShiftOff {
			result.Skipped++
			continue
		}

		inserted, err := s.store.InsertShift(ctx, Shift{
			UserID:    userID,
			Date:      date,
			StartTime: entry.Start,
			EndTime:   entry.End,
			Type:      entry.Type,
			CycleWeek: week,
		})
		if err != nil {
			return GenerateResult{}, err
		}
		if inserted {
			result.Generated++
		} else {
			result.Skipped++
		}
	}

	result.Message = fmt.Sprintf("generated %d shifts, skipped %d days", result.Generated, result.Skipped)
	return result, nil
}

// GenerateAllShifts runs per-user generation across every active assignment.
// One user's failure never aborts the batch; failures are collected and
// reported alongside the aggregate counts.
func (s *Service) GenerateAllShifts(ctx context.Context, start, end time.Time) (BulkGenerateResult, error) {
	if end.Before(start) {
		return BulkGenerateResult{}, ErrInvalidRange
	}

	assignments, err := s.store.ListActiveAssignments(ctx)
	if err != nil {
		return BulkGenerateResult{}, err
	}

	var bulk BulkGenerateResult
	for _, assignment := range assignments {
		userResult, err := s.GenerateUserShifts(ctx, assignment.UserID, start, end)
		if err != nil {
			userResult = GenerateResult{Success: false, Message: err.Error()}
		}
		bulk.Users = append(bulk.Users, UserGenerateResult{UserID: assignment.UserID, GenerateResult: userResult})
		if userResult.Success {
			bulk.SuccessfulUsers++
			bulk.Generated += userResult.Generated
			bulk.Skipped += userResult.Skipped
		} else {
			bulk.FailedUsers++
		}
	}
	return bulk, nil
}

func (s *Service) ListShifts(ctx context.Context, userID string, from, to time.Time) ([]Shift, error) {
	return s.store.ListShifts(ctx, userID, from, to)
}

func (s *Service) DeactivateSchedule(ctx context.Context, scheduleID string) error {
	return s.store.DeactivateSchedule(ctx, scheduleID)
}

func (s *Service) DeleteSchedule(ctx context.Context, scheduleID string) error {
	return s.store.DeleteSchedule(ctx, scheduleID)
}

// cycleWeekFor maps a calendar date onto the rotation:
// ((refWeek-1 + weeksBetween) mod length) + 1, with the mod normalized so
// dates before the reference point also land inside the cycle.
func cycleWeekFor(refDate time.Time, refWeek, cycleLength int, date time.Time) int {
	weeks := weeksBetween(refDate, date)
	offset := (refWeek - 1 + weeks) % cycleLength
	if offset < 0 {
		offset += cycleLength
	}
	return offset + 1
}

func weeksBetween(refDate, date time.Time) int {
	days := int(mondayOf(date).Sub(mondayOf(refDate)).Hours() / 24)
	if days >= 0 {
		return days / 7
	}
	return -((-days + 6) / 7)
}

func mondayOf(date time.Time) time.Time {
	date = startOfDay(date)
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func startOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func weekdayName(date time.Time) string {
	return weekdayNames[(int(date.Weekday())+6)%7]
}
