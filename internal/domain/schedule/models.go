package schedule

import "time"

type ShiftRecord struct {
	Day       string    `json:"day"`
	Date      time.Time `json:"date"`
	CycleWeek int       `json:"cycleWeek"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	Type      ShiftType `json:"type"`
	Edited    bool      `json:"edited"`
}

type ParseMetadata struct {
	FileName    string    `json:"fileName"`
	TotalDays   int       `json:"totalDays"`
	TotalShifts int       `json:"totalShifts"`
	FirstDate   time.Time `json:"firstDate"`
	LastDate    time.Time `json:"lastDate"`
}

type ParseResult struct {
	CalendarWeek int           `json:"calendarWeek"`
	Records      []ShiftRecord `json:"records"`
	Metadata     ParseMetadata `json:"metadata"`
}

// Entry is one weekday slot inside a schedule's embedded payload.
type Entry struct {
	Start string    `json:"start,omitempty"`
	End   string    `json:"end,omitempty"`
	Type  ShiftType `json:"type"`
}

// Schedule is an imported recurring plan. ReferenceDate together with
// ReferenceWeek anchors every projection derived from it; Weeks maps
// cycle-week number to weekday name to entry.
type Schedule struct {
	ID            string                   `json:"id"`
	PositionID    string                   `json:"positionId"`
	WorkGroup     int                      `json:"workGroup"`
	Name          string                   `json:"name"`
	ReferenceDate time.Time                `json:"referenceDate"`
	ReferenceWeek int                      `json:"referenceWeek"`
	CalendarWeek  int                      `json:"calendarWeek"`
	Weeks         map[int]map[string]Entry `json:"weeks"`
	Active        bool                     `json:"active"`
}

type FormatType string

// FormatAnalysis is the advisory result of sniffing an uploaded JSON
// document. It never blocks an import.
type FormatAnalysis struct {
	Format          FormatType `json:"format"`
	Confidence      int        `json:"confidence"`
	TotalRecords    int        `json:"totalRecords"`
	WorkingDays     int        `json:"workingDays"`
	CycleWeeks      []int      `json:"cycleWeeks,omitempty"`
	SuggestedWeek   int        `json:"suggestedWeek,omitempty"`
	SuggestedName   string     `json:"suggestedName,omitempty"`
	CalendarWeeks   string     `json:"calendarWeeks,omitempty"`
	Recommendations []string   `json:"recommendations,omitempty"`
}

// Assignment links a user to a position's work group and the reference
// point used for cycle projection.
type Assignment struct {
	UserID        string    `json:"userId"`
	PositionID    string    `json:"positionId"`
	WorkGroup     int       `json:"workGroup"`
	ReferenceDate time.Time `json:"referenceDate"`
	ReferenceWeek int       `json:"referenceWeek"`
	CycleLength   int       `json:"cycleLength"`
}

type Shift struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	Type      ShiftType `json:"type"`
	CycleWeek int       `json:"cycleWeek"`
	Edited    bool      `json:"edited"`
}

type GenerateResult struct {
	Success   bool   `json:"success"`
	Generated int    `json:"generated"`
	Skipped   int    `json:"skipped"`
	Message   string `json:"message,omitempty"`
}

type UserGenerateResult struct {
	UserID string `json:"userId"`
	GenerateResult
}

type BulkGenerateResult struct {
	Users           []UserGenerateResult `json:"users"`
	SuccessfulUsers int                  `json:"successfulUsers"`
	FailedUsers     int                  `json:"failedUsers"`
	Generated       int                  `json:"generated"`
	Skipped         int                  `json:"skipped"`
}
