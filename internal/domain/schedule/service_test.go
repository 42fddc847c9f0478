package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	assignments map[string]Assignment
	schedules   map[string]*Schedule // keyed by positionID
	shifts      map[string]Shift     // keyed by user|date
	insertErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assignments: map[string]Assignment{},
		schedules:   map[string]*Schedule{},
		shifts:      map[string]Shift{},
	}
}

func (f *fakeStore) ActiveAssignment(_ context.Context, userID string) (Assignment, error) {
	assignment, ok := f.assignments[userID]
	if !ok {
		return Assignment{}, ErrNoAssignment
	}
	return assignment, nil
}

func (f *fakeStore) ListActiveAssignments(_ context.Context) ([]Assignment, error) {
	var out []Assignment
	for _, a := range f.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) ActiveSchedule(_ context.Context, positionID string, _ int) (*Schedule, error) {
	return f.schedules[positionID], nil
}

func (f *fakeStore) UpsertSchedule(_ context.Context, sched Schedule) (string, error) {
	copied := sched
	copied.ID = "sched-" + sched.PositionID
	f.schedules[sched.PositionID] = &copied
	return copied.ID, nil
}

func (f *fakeStore) DeactivateSchedule(_ context.Context, _ string) error { return nil }
func (f *fakeStore) DeleteSchedule(_ context.Context, _ string) error     { return nil }

func (f *fakeStore) InsertShift(_ context.Context, shift Shift) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := shift.UserID + "|" + shift.Date.Format("2006-01-02")
	if _, exists := f.shifts[key]; exists {
		return false, nil
	}
	f.shifts[key] = shift
	return true, nil
}

func (f *fakeStore) ListShifts(_ context.Context, userID string, from, to time.Time) ([]Shift, error) {
	var out []Shift
	for _, shift := range f.shifts {
		if shift.UserID == userID && !shift.Date.Before(from) && !shift.Date.After(to) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func mondayRef() time.Time {
	return time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
}

func rotationSchedule(positionID string) *Schedule {
	// Week 1: morning Mon-Fri. Week 2: night Mon only. Week 3: all off.
	return &Schedule{
		ID:         "sched-" + positionID,
		PositionID: positionID,
		Weeks: map[int]map[string]Entry{
			1: {
				"Monday":    {Start: "06:00", End: "14:00", Type: ShiftMorning},
				"Tuesday":   {Start: "06:00", End: "14:00", Type: ShiftMorning},
				"Wednesday": {Start: "06:00", End: "14:00", Type: ShiftMorning},
				"Thursday":  {Start: "06:00", End: "14:00", Type: ShiftMorning},
				"Friday":    {Start: "06:00", End: "14:00", Type: ShiftMorning},
			},
			2: {
				"Monday": {Start: "22:00", End: "06:00", Type: ShiftNight},
			},
			3: {
				"Monday": {Type: ShiftOff},
			},
		},
	}
}

func TestGenerateUserShifts(t *testing.T) {
	store := newFakeStore()
	store.assignments["u1"] = Assignment{
		UserID: "u1", PositionID: "p1", WorkGroup: 1,
		ReferenceDate: mondayRef(), ReferenceWeek: 1, CycleLength: 3,
	}
	store.schedules["p1"] = rotationSchedule("p1")
	svc := NewService(store)

	start := mondayRef()
	end := start.AddDate(0, 0, 20) // three full weeks
	result, err := svc.GenerateUserShifts(context.Background(), "u1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	// Week 1: 5 shifts, week 2: 1 shift, week 3: none.
	if result.Generated != 6 {
		t.Fatalf("expected 6 generated, got %d", result.Generated)
	}
	if result.Skipped != 15 {
		t.Fatalf("expected 15 skipped, got %d", result.Skipped)
	}
}

func TestGenerateUserShiftsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.assignments["u1"] = Assignment{
		UserID: "u1", PositionID: "p1", WorkGroup: 1,
		ReferenceDate: mondayRef(), ReferenceWeek: 1, CycleLength: 3,
	}
	store.schedules["p1"] = rotationSchedule("p1")
	svc := NewService(store)

	start := mondayRef()
	end := start.AddDate(0, 0, 6)
	first, err := svc.GenerateUserShifts(context.Background(), "u1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GenerateUserShifts(context.Background(), "u1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Generated != 5 {
		t.Fatalf("first run: expected 5 generated, got %d", first.Generated)
	}
	if second.Generated != 0 {
		t.Fatalf("second run must not duplicate, generated %d", second.Generated)
	}
	if len(store.shifts) != 5 {
		t.Fatalf("expected 5 stored shifts, got %d", len(store.shifts))
	}
}

func TestGenerateUserShiftsReferenceOffset(t *testing.T) {
	// Reference anchored at cycle week 2: the reference Monday itself must be
	// a night shift, the following Monday wraps to week 3 (off), then week 1.
	store := newFakeStore()
	store.assignments["u1"] = Assignment{
		UserID: "u1", PositionID: "p1", WorkGroup: 1,
		ReferenceDate: mondayRef(), ReferenceWeek: 2, CycleLength: 3,
	}
	store.schedules["p1"] = rotationSchedule("p1")
	svc := NewService(store)

	result, err := svc.GenerateUserShifts(context.Background(), "u1", mondayRef(), mondayRef())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Generated != 1 {
		t.Fatalf("expected the night shift, got %+v", result)
	}
	for _, shift := range store.shifts {
		if shift.Type != ShiftNight || shift.CycleWeek != 2 {
			t.Fatalf("expected cycle-week-2 night shift, got %+v", shift)
		}
	}
}

func TestGenerateUserShiftsDateBeforeReference(t *testing.T) {
	store := newFakeStore()
	store.assignments["u1"] = Assignment{
		UserID: "u1", PositionID: "p1", WorkGroup: 1,
		ReferenceDate: mondayRef(), ReferenceWeek: 1, CycleLength: 3,
	}
	store.schedules["p1"] = rotationSchedule("p1")
	svc := NewService(store)

	// One week before the reference Monday lands on cycle week 3 (all off).
	day := mondayRef().AddDate(0, 0, -7)
	result, err := svc.GenerateUserShifts(context.Background(), "u1", day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Generated != 0 || result.Skipped != 1 {
		t.Fatalf("expected skip on off week, got %+v", result)
	}

	// Two weeks before wraps to cycle week 2, a night shift.
	day = mondayRef().AddDate(0, 0, -14)
	result, err = svc.GenerateUserShifts(context.Background(), "u1", day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Generated != 1 {
		t.Fatalf("expected night shift before reference, got %+v", result)
	}
}

func TestGenerateUserShiftsNoAssignment(t *testing.T) {
	svc := NewService(newFakeStore())
	result, err := svc.GenerateUserShifts(context.Background(), "ghost", mondayRef(), mondayRef())
	if err != nil {
		t.Fatalf("not-found must not be an error: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure result, got %+v", result)
	}
	if result.Message == "" {
		t.Fatal("expected a message explaining the failure")
	}
}

func TestGenerateUserShiftsInvalidRange(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.GenerateUserShifts(context.Background(), "u1", mondayRef(), mondayRef().AddDate(0, 0, -1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestGenerateAllShiftsPartialFailure(t *testing.T) {
	store := newFakeStore()
	for _, user := range []string{"u1", "u2"} {
		store.assignments[user] = Assignment{
			UserID: user, PositionID: "p1", WorkGroup: 1,
			ReferenceDate: mondayRef(), ReferenceWeek: 1, CycleLength: 3,
		}
	}
	// u3 has an assignment but its position has no schedule.
	store.assignments["u3"] = Assignment{
		UserID: "u3", PositionID: "p-missing", WorkGroup: 1,
		ReferenceDate: mondayRef(), ReferenceWeek: 1, CycleLength: 3,
	}
	store.schedules["p1"] = rotationSchedule("p1")
	svc := NewService(store)

	bulk, err := svc.GenerateAllShifts(context.Background(), mondayRef(), mondayRef().AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bulk.SuccessfulUsers != 2 || bulk.FailedUsers != 1 {
		t.Fatalf("expected 2 ok / 1 failed, got %+v", bulk)
	}
	if bulk.Generated != 10 {
		t.Fatalf("expected 10 generated across the two users, got %d", bulk.Generated)
	}
	if len(bulk.Users) != 3 {
		t.Fatalf("expected a per-user entry for all 3, got %d", len(bulk.Users))
	}
}

func TestImportParsedAnchorsReference(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	records := []ShiftRecord{
		{Day: "Tuesday", Date: time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), CycleWeek: 2, StartTime: "14:00", EndTime: "22:00", Type: ShiftAfternoon},
		{Day: "Monday", Date: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), CycleWeek: 1, StartTime: "06:00", EndTime: "14:00", Type: ShiftMorning},
	}
	_, err := svc.ImportParsed(context.Background(), "p1", 1, "Testplan", &ParseResult{CalendarWeek: 2, Records: records})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sched := store.schedules["p1"]
	if sched == nil {
		t.Fatal("schedule not stored")
	}
	if sched.ReferenceWeek != 1 {
		t.Fatalf("earliest record must anchor the reference, got week %d", sched.ReferenceWeek)
	}
	if !sched.ReferenceDate.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected reference date %s", sched.ReferenceDate)
	}
	if sched.Weeks[2]["Tuesday"].Start != "14:00" {
		t.Fatalf("payload not folded correctly: %+v", sched.Weeks)
	}
}

func TestImportParsedEmpty(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.ImportParsed(context.Background(), "p1", 1, "x", &ParseResult{})
	if !errors.Is(err, ErrEmptySchedule) {
		t.Fatalf("expected ErrEmptySchedule, got %v", err)
	}
}
