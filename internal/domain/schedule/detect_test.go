package schedule

import "testing"

func TestDetectYearlyCyclic(t *testing.T) {
	raw := []byte(`{"shifts":[
    {"date":"2025-01-06","start_time":"06:00","cycle_week":1},
    {"date":"2025-01-13","start_time":"14:00","cycle_week":2},
    {"date":"2025-01-20","start_time":"22:00","cycle_week":3}
  ]}`)

	analysis := DetectFormat(raw, "plan_2025.json")
	if analysis.Format != FormatYearlyCyclic {
		t.Fatalf("expected yearly-cyclic, got %s", analysis.Format)
	}
	if analysis.TotalRecords != 3 || analysis.WorkingDays != 3 {
		t.Fatalf("unexpected record counts: %+v", analysis)
	}
	if len(analysis.CycleWeeks) != 3 || analysis.SuggestedWeek != 1 {
		t.Fatalf("unexpected cycle weeks: %+v", analysis.CycleWeeks)
	}
	if analysis.Confidence <= 0 || analysis.Confidence > 100 {
		t.Fatalf("confidence out of range: %d", analysis.Confidence)
	}
	if analysis.SuggestedName == "" || analysis.CalendarWeeks == "" {
		t.Fatalf("expected suggested metadata, got %+v", analysis)
	}
}

func TestDetectFullRotationScoresHigher(t *testing.T) {
	partial := []byte(`{"shifts":[{"date":"2025-01-06","start_time":"06:00","cycle_week":1}]}`)
	full := []byte(`{"shifts":[
    {"date":"2025-01-06","start_time":"06:00","cycle_week":1},
    {"date":"2025-01-13","start_time":"06:00","cycle_week":2},
    {"date":"2025-01-20","start_time":"06:00","cycle_week":3},
    {"date":"2025-01-27","start_time":"06:00","cycle_week":4},
    {"date":"2025-02-03","start_time":"06:00","cycle_week":5},
    {"date":"2025-02-10","start_time":"06:00","cycle_week":6},
    {"date":"2025-02-17","start_time":"06:00","cycle_week":7},
    {"date":"2025-02-24","start_time":"06:00","cycle_week":8},
    {"date":"2025-03-03","start_time":"06:00","cycle_week":9},
    {"date":"2025-03-10","start_time":"06:00","cycle_week":10},
    {"date":"2025-03-17","start_time":"06:00","cycle_week":11},
    {"date":"2025-03-24","start_time":"06:00","cycle_week":12},
    {"date":"2025-03-31","start_time":"06:00","cycle_week":13},
    {"date":"2025-04-07","start_time":"06:00","cycle_week":14},
    {"date":"2025-04-14","start_time":"06:00","cycle_week":15}
  ]}`)

	partialScore := DetectFormat(partial, "plan.json").Confidence
	fullScore := DetectFormat(full, "plan.json").Confidence
	if fullScore <= partialScore {
		t.Fatalf("full rotation should score higher: partial=%d full=%d", partialScore, fullScore)
	}
	if fullScore != 100 {
		t.Fatalf("complete rotation should max out at 100, got %d", fullScore)
	}
}

func TestDetectWeeklyCyclic(t *testing.T) {
	raw := []byte(`{"entries":[{"date":"2025-03-17","start":"14:00","week":3}]}`)
	analysis := DetectFormat(raw, "woche3.json")
	if analysis.Format != FormatWeeklyCyclic {
		t.Fatalf("expected weekly-cyclic, got %s", analysis.Format)
	}
}

func TestDetectStandard(t *testing.T) {
	raw := []byte(`{"2025-03-17":{"start_time":"06:00","end_time":"14:00"},"2025-03-18":{"start_time":"14:00"}}`)
	analysis := DetectFormat(raw, "maerz.json")
	if analysis.Format != FormatStandard {
		t.Fatalf("expected standard, got %s", analysis.Format)
	}
	if analysis.TotalRecords != 2 || analysis.WorkingDays != 2 {
		t.Fatalf("unexpected counts: %+v", analysis)
	}
}

func TestDetectUnknown(t *testing.T) {
	analysis := DetectFormat([]byte(`{"foo":"bar"}`), "x.json")
	if analysis.Format != FormatUnknown || analysis.Confidence != 0 {
		t.Fatalf("expected unknown with zero confidence, got %+v", analysis)
	}
	if len(analysis.Recommendations) == 0 {
		t.Fatal("expected a diagnostic recommendation")
	}
}

func TestDetectMalformedJSON(t *testing.T) {
	analysis := DetectFormat([]byte(`{not json`), "x.json")
	if analysis.Format != FormatUnknown {
		t.Fatalf("expected unknown, got %s", analysis.Format)
	}
}
