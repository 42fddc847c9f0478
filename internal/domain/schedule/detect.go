package schedule

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type formatMatcher func(doc any, fileName string) (FormatAnalysis, bool)

// DetectFormat inspects an uploaded JSON document and guesses which schedule
// export it is. The matchers run in order and the first hit wins; nothing here
// ever blocks an import, an unrecognized shape just scores zero.
func DetectFormat(raw []byte, fileName string) FormatAnalysis {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return FormatAnalysis{
			Format:          FormatUnknown,
			Recommendations: []string{"file is not valid JSON: " + err.Error()},
		}
	}

	matchers := []formatMatcher{
		matchYearlyCyclic,
		matchWeeklyCyclic,
		matchStandard,
	}
	for _, match := range matchers {
		if analysis, ok := match(doc, fileName); ok {
			return analysis
		}
	}

	return FormatAnalysis{
		Format:          FormatUnknown,
		Recommendations: []string{"no recognizable schedule structure: expected a shifts array, an entries array, or date-keyed days"},
	}
}

// matchYearlyCyclic: {"shifts": [{"date": "...", "start_time"|"time": "..."}]}
// carrying cycle-week markers for a whole rotation.
func matchYearlyCyclic(doc any, fileName string) (FormatAnalysis, bool) {
	root, ok := doc.(map[string]any)
	if !ok {
		return FormatAnalysis{}, false
	}
	items, ok := root["shifts"].([]any)
	if !ok {
		return FormatAnalysis{}, false
	}

	var dates []time.Time
	working := 0
	weeks := map[int]bool{}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if date, ok := entryDate(entry, "date"); ok {
			dates = append(dates, date)
		}
		if entryTime(entry, "start_time", "time") != "" {
			working++
		}
		if week, ok := entryWeek(entry); ok {
			weeks[week] = true
		}
	}
	if len(dates) == 0 && working == 0 {
		return FormatAnalysis{}, false
	}

	analysis := buildAnalysis(FormatYearlyCyclic, 55, fileName, len(items), working, weeks, dates)
	return analysis, true
}

// matchWeeklyCyclic: {"entries": [...]} as exported by the week planner.
func matchWeeklyCyclic(doc any, fileName string) (FormatAnalysis, bool) {
	root, ok := doc.(map[string]any)
	if !ok {
		return FormatAnalysis{}, false
	}
	items, ok := root["entries"].([]any)
	if !ok {
		return FormatAnalysis{}, false
	}

	var dates []time.Time
	working := 0
	weeks := map[int]bool{}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if date, ok := entryDate(entry, "date", "day"); ok {
			dates = append(dates, date)
		}
		if entryTime(entry, "start_time", "start", "time") != "" {
			working++
		}
		if week, ok := entryWeek(entry); ok {
			weeks[week] = true
		}
	}

	analysis := buildAnalysis(FormatWeeklyCyclic, 45, fileName, len(items), working, weeks, dates)
	return analysis, true
}

// matchStandard: date-keyed root, {"2025-03-17": {"start_time": "06:00", ...}}.
func matchStandard(doc any, fileName string) (FormatAnalysis, bool) {
	root, ok := doc.(map[string]any)
	if !ok {
		return FormatAnalysis{}, false
	}

	var dates []time.Time
	working := 0
	total := 0
	for key, value := range root {
		if !isoDatePattern.MatchString(key) {
			continue
		}
		date, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		total++
		dates = append(dates, date)
		if entry, ok := value.(map[string]any); ok {
			if entryTime(entry, "start_time", "start") != "" {
				working++
			}
		}
	}
	if total == 0 {
		return FormatAnalysis{}, false
	}

	analysis := buildAnalysis(FormatStandard, 50, fileName, total, working, nil, dates)
	return analysis, true
}

func buildAnalysis(format FormatType, base int, fileName string, total, working int, weeks map[int]bool, dates []time.Time) FormatAnalysis {
	analysis := FormatAnalysis{
		Format:       format,
		TotalRecords: total,
		WorkingDays:  working,
	}

	confidence := base
	if len(weeks) > 0 {
		list := make([]int, 0, len(weeks))
		for week := range weeks {
			list = append(list, week)
		}
		sort.Ints(list)
		analysis.CycleWeeks = list
		analysis.SuggestedWeek = list[0]

		bonus := len(list) * 2
		if bonus > 30 {
			bonus = 30
		}
		confidence += bonus
		if len(list) == maxCycleWeek {
			confidence += 10
		} else {
			analysis.Recommendations = append(analysis.Recommendations,
				fmt.Sprintf("only %d of %d cycle weeks present", len(list), maxCycleWeek))
		}
	} else {
		analysis.Recommendations = append(analysis.Recommendations, "no cycle-week markers found, work group must be chosen manually")
	}

	if len(dates) > 0 {
		first, last := dateBounds(dates)
		span := last.Sub(first)
		if span >= 0 && span <= 370*24*time.Hour {
			confidence += 5
		}
		_, firstWeek := first.ISOWeek()
		_, lastWeek := last.ISOWeek()
		analysis.CalendarWeeks = fmt.Sprintf("KW %d - KW %d", firstWeek, lastWeek)
		analysis.SuggestedName = suggestName(fileName, first, last)
	} else {
		analysis.SuggestedName = baseName(fileName)
	}

	if total == 0 {
		confidence = base / 2
		analysis.Recommendations = append(analysis.Recommendations, "document matched but contains no records")
	}
	if confidence > 100 {
		confidence = 100
	}
	analysis.Confidence = confidence
	return analysis
}

func suggestName(fileName string, first, last time.Time) string {
	return fmt.Sprintf("%s (%s - %s)", baseName(fileName), first.Format("2006-01-02"), last.Format("2006-01-02"))
}

func baseName(fileName string) string {
	name := filepath.Base(fileName)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func dateBounds(dates []time.Time) (first, last time.Time) {
	first, last = dates[0], dates[0]
	for _, date := range dates[1:] {
		if date.Before(first) {
			first = date
		}
		if date.After(last) {
			last = date
		}
	}
	return first, last
}

func entryDate(entry map[string]any, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		if value, ok := entry[key].(string); ok {
			if date, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err == nil {
				return date, true
			}
		}
	}
	return time.Time{}, false
}

func entryTime(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := entry[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func entryWeek(entry map[string]any) (int, bool) {
	for _, key := range []string{"cycle_week", "week", "kw", "woche"} {
		switch value := entry[key].(type) {
		case float64:
			week := int(value)
			if week >= 1 && week <= maxCycleWeek {
				return week, true
			}
		case string:
			week, err := strconv.Atoi(strings.TrimSpace(value))
			if err == nil && week >= 1 && week <= maxCycleWeek {
				return week, true
			}
		}
	}
	return 0, false
}
