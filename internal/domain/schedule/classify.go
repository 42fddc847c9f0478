package schedule

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// Classify maps a raw plan cell to a shift type. It accepts an Excel serial
// time fraction ("0.625"), free text containing one or more HH:MM tokens, or
// anything else, which counts as a day off. It never fails; unparseable input
// is a day off by definition.
func Classify(raw string) ShiftType {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ShiftOff
	}

	if !strings.Contains(value, ":") {
		if frac, err := strconv.ParseFloat(value, 64); err == nil {
			if frac == 0 {
				return ShiftOff
			}
			return classifyMinute(fractionToMinute(frac))
		}
	}

	tokens := extractClockTokens(value)
	if len(tokens) == 0 {
		return ShiftOff
	}
	minute, ok := clockToMinute(tokens[0])
	if !ok {
		return ShiftOff
	}
	return classifyMinute(minute)
}

// classifyMinute decides by start time only. The night check runs first so
// the wrap over midnight (22:00 through 06:30) wins over the morning window.
func classifyMinute(m int) ShiftType {
	switch {
	case m >= nightLateStart || m <= nightWrapEnd:
		return ShiftNight
	case m >= morningStart && m < morningEnd:
		return ShiftMorning
	case m >= morningEnd && m < afternoonEnd:
		return ShiftAfternoon
	default:
		return ShiftOff
	}
}

func fractionToMinute(frac float64) int {
	m := int(math.Round(frac*minutesPerDay)) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return m
}

func extractClockTokens(value string) []string {
	matches := clockPattern.FindAllStringSubmatch(value, -1)
	tokens := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, ok := clockToMinute(match[0]); ok {
			tokens = append(tokens, normalizeClock(match[0]))
		}
	}
	return tokens
}

func clockToMinute(token string) (int, bool) {
	match := clockPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func normalizeClock(token string) string {
	minute, ok := clockToMinute(token)
	if !ok {
		return token
	}
	return minuteToClock(minute)
}

func minuteToClock(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
