package reports

import "time"

// ShiftRegisterRow is one line of the shift register: a worker's shift for a
// day joined with their profile, as exported to CSV and XLSX.
type ShiftRegisterRow struct {
	UserID          string
	FirstName       string
	LastName        string
	PersonnelNumber string
	WorkDate        time.Time
	ShiftType       string
	StartTime       string
	EndTime         string
	CycleWeek       int
	Edited          bool
}

// Summary aggregates are shown on the admin dashboard.
type Summary struct {
	Workers      int            `json:"workers"`
	ShiftsTotal  int            `json:"shiftsTotal"`
	ShiftsByType map[string]int `json:"shiftsByType"`
}
