package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Grid layout of the DHL plan sheets: row 0 carries the title, row 1 the
// work-group cycle numbers, rows 2..8 one weekday each (Monday first).
const (
	headerRowIndex = 1
	firstDataRow   = 2
	weekdayRows    = 7
	minGridRows    = firstDataRow + weekdayRows
	maxCycleWeek   = 15
)

var (
	fileWeekPattern = regexp.MustCompile(`(?i)(?:KW|week|woche)[ _-]*(\d{1,2})`)
	fileYearPattern = regexp.MustCompile(`20\d{2}`)
)

// ParseGrid turns a raw spreadsheet grid into normalized shift records.
// It fails with a ParseError when the sheet is too small or no cycle-week
// header can be located; empty data rows are fine and yield no records.
func ParseGrid(grid [][]string, fileName string) (*ParseResult, error) {
	if len(grid) < minGridRows {
		return nil, &ParseError{Reason: fmt.Sprintf("schedule sheet needs at least %d rows, got %d", minGridRows, len(grid))}
	}

	calendarWeek := weekFromFileName(fileName)
	year := yearFromFileName(fileName)

	cycleColumns := locateCycleColumns(grid[headerRowIndex])
	if len(cycleColumns) == 0 {
		return nil, &ParseError{Reason: "no cycle-week header found: row 2 must contain work-group numbers 1-15"}
	}

	var records []ShiftRecord
	for dayIdx := 0; dayIdx < weekdayRows; dayIdx++ {
		row := grid[firstDataRow+dayIdx]
		for col, cycleWeek := range cycleColumns {
			if col >= len(row) {
				continue
			}
			record, ok := cellToRecord(row[col], dayIdx, cycleWeek, year)
			if ok {
				records = append(records, record)
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return &ParseResult{
		CalendarWeek: calendarWeek,
		Records:      records,
		Metadata:     buildMetadata(fileName, records),
	}, nil
}

func locateCycleColumns(header []string) map[int]int {
	columns := map[int]int{}
	for col, cell := range header {
		n, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			continue
		}
		if n >= 1 && n <= maxCycleWeek {
			columns[col] = n
		}
	}
	return columns
}

func cellToRecord(cell string, dayIdx, cycleWeek, year int) (ShiftRecord, bool) {
	value := strings.TrimSpace(cell)
	if value == "" || value == "0" {
		return ShiftRecord{}, false
	}

	shiftType := Classify(value)
	if shiftType == ShiftOff {
		// Absence of a record means day off; off entries are never stored.
		return ShiftRecord{}, false
	}

	start, end := cellTimes(value)
	if start == "" {
		return ShiftRecord{}, false
	}

	return ShiftRecord{
		Day:       weekdayNames[dayIdx],
		Date:      cycleStartDate(year, cycleWeek).AddDate(0, 0, dayIdx),
		CycleWeek: cycleWeek,
		StartTime: start,
		EndTime:   end,
		Type:      shiftType,
	}, true
}

// cellTimes extracts start and end from a cell. One token means the plan
// lists only the start and the standard eight-hour duration applies; with
// three tokens the third is an informational duration and is dropped.
func cellTimes(value string) (start, end string) {
	tokens := extractClockTokens(value)
	if len(tokens) == 0 {
		if frac, err := strconv.ParseFloat(value, 64); err == nil && frac != 0 {
			tokens = []string{minuteToClock(fractionToMinute(frac))}
		}
	}

	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		startMinute, _ := clockToMinute(tokens[0])
		return tokens[0], minuteToClock(startMinute + defaultShiftLen)
	default:
		return tokens[0], tokens[1]
	}
}

// cycleStartDate computes the Monday that opens the given cycle week: the
// first Monday on or after January 1 advanced by whole weeks.
func cycleStartDate(year, cycleWeek int) time.Time {
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return day.AddDate(0, 0, (cycleWeek-1)*7)
}

func weekFromFileName(fileName string) int {
	match := fileWeekPattern.FindStringSubmatch(fileName)
	if match == nil {
		return 1
	}
	week, err := strconv.Atoi(match[1])
	if err != nil || week < 1 || week > 53 {
		return 1
	}
	return week
}

func yearFromFileName(fileName string) int {
	if match := fileYearPattern.FindString(fileName); match != "" {
		year, _ := strconv.Atoi(match)
		return year
	}
	return time.Now().Year()
}

func buildMetadata(fileName string, records []ShiftRecord) ParseMetadata {
	meta := ParseMetadata{FileName: fileName, TotalShifts: len(records)}
	seen := map[string]bool{}
	for _, record := range records {
		key := record.Date.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			meta.TotalDays++
		}
		if meta.FirstDate.IsZero() || record.Date.Before(meta.FirstDate) {
			meta.FirstDate = record.Date
		}
		if record.Date.After(meta.LastDate) {
			meta.LastDate = record.Date
		}
	}
	return meta
}
