package schedule

import (
	"testing"
	"time"
)

func planGrid(header []string, dayRows map[int][]string) [][]string {
	grid := make([][]string, minGridRows)
	grid[0] = []string{"Schichtplan Paketzentrum"}
	grid[headerRowIndex] = header
	for i := 0; i < weekdayRows; i++ {
		if row, ok := dayRows[i]; ok {
			grid[firstDataRow+i] = row
		} else {
			grid[firstDataRow+i] = []string{}
		}
	}
	return grid
}

func TestParseGridNoHeader(t *testing.T) {
	grid := planGrid([]string{"", "x", "99"}, nil)
	_, err := ParseGrid(grid, "plan_KW10_2025.xlsx")
	if err == nil {
		t.Fatal("expected error for missing cycle-week header")
	}
	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Reason == "" {
		t.Fatal("expected a descriptive reason")
	}
}

func TestParseGridTooSmall(t *testing.T) {
	if _, err := ParseGrid([][]string{{"a"}, {"1"}}, "plan.xlsx"); err == nil {
		t.Fatal("expected error for undersized grid")
	}
}

func TestParseGridEmptyDataRows(t *testing.T) {
	grid := planGrid([]string{"", "1", "2"}, nil)
	result, err := ParseGrid(grid, "plan_KW7_2025.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
	if result.CalendarWeek != 7 {
		t.Fatalf("expected calendar week 7 from filename, got %d", result.CalendarWeek)
	}
}

func TestParseGridTimeTokenForms(t *testing.T) {
	grid := planGrid([]string{"", "1", "2", "3"}, map[int][]string{
		0: {"", "06:00", "14:00 - 22:00", "22:00 06:00 8:00"},
	})
	result, err := ParseGrid(grid, "plan_2025.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}

	byWeek := map[int]ShiftRecord{}
	for _, record := range result.Records {
		byWeek[record.CycleWeek] = record
	}

	// Single token: eight-hour shift assumed.
	if byWeek[1].StartTime != "06:00" || byWeek[1].EndTime != "14:00" {
		t.Fatalf("single token: got %s-%s", byWeek[1].StartTime, byWeek[1].EndTime)
	}
	if byWeek[1].Type != ShiftMorning {
		t.Fatalf("expected morning, got %s", byWeek[1].Type)
	}

	// Two tokens: start and end taken directly.
	if byWeek[2].StartTime != "14:00" || byWeek[2].EndTime != "22:00" {
		t.Fatalf("two tokens: got %s-%s", byWeek[2].StartTime, byWeek[2].EndTime)
	}
	if byWeek[2].Type != ShiftAfternoon {
		t.Fatalf("expected afternoon, got %s", byWeek[2].Type)
	}

	// Three tokens: third is a duration and is dropped.
	if byWeek[3].StartTime != "22:00" || byWeek[3].EndTime != "06:00" {
		t.Fatalf("three tokens: got %s-%s", byWeek[3].StartTime, byWeek[3].EndTime)
	}
	if byWeek[3].Type != ShiftNight {
		t.Fatalf("expected night, got %s", byWeek[3].Type)
	}
}

func TestParseGridOffCellsDropped(t *testing.T) {
	grid := planGrid([]string{"", "1"}, map[int][]string{
		0: {"", "06:00"},
		1: {"", "0"},
		2: {"", "frei"},
		3: {"", ""},
	})
	result, err := ParseGrid(grid, "plan_2025.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected only the Monday shift, got %d records", len(result.Records))
	}
	if result.Records[0].Day != "Monday" {
		t.Fatalf("expected Monday, got %s", result.Records[0].Day)
	}
}

func TestParseGridCycleDates(t *testing.T) {
	grid := planGrid([]string{"", "1", "2"}, map[int][]string{
		0: {"", "06:00", "06:00"},
	})
	result, err := ParseGrid(grid, "plan_2025.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First Monday of 2025 is January 6.
	want1 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	want2 := want1.AddDate(0, 0, 7)
	if !result.Records[0].Date.Equal(want1) {
		t.Fatalf("cycle 1 Monday: expected %s, got %s", want1, result.Records[0].Date)
	}
	if !result.Records[1].Date.Equal(want2) {
		t.Fatalf("cycle 2 Monday: expected %s, got %s", want2, result.Records[1].Date)
	}

	meta := result.Metadata
	if meta.TotalShifts != 2 || meta.TotalDays != 2 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if !meta.FirstDate.Equal(want1) || !meta.LastDate.Equal(want2) {
		t.Fatalf("unexpected date range: %+v", meta)
	}
}

func TestParseGridExcelFractionCell(t *testing.T) {
	grid := planGrid([]string{"", "1"}, map[int][]string{
		0: {"", "0.625"},
	})
	result, err := ParseGrid(grid, "plan_2025.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	record := result.Records[0]
	if record.StartTime != "15:00" || record.EndTime != "23:00" {
		t.Fatalf("fraction cell: got %s-%s", record.StartTime, record.EndTime)
	}
	if record.Type != ShiftAfternoon {
		t.Fatalf("expected afternoon, got %s", record.Type)
	}
}
