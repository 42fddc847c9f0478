package schedule

import "testing"

func TestClassifyMinuteBoundaries(t *testing.T) {
	cases := []struct {
		minute int
		want   ShiftType
	}{
		{0, ShiftNight},
		{390, ShiftNight},   // 06:30 still night
		{391, ShiftMorning}, // 06:31 morning
		{299, ShiftNight},   // before 05:00, inside the wrap
		{300, ShiftNight},   // 05:00 caught by the wrap check first
		{839, ShiftMorning}, // 13:59
		{840, ShiftAfternoon},
		{1274, ShiftAfternoon}, // 21:14
		{1275, ShiftOff},       // 21:15 gap before night
		{1319, ShiftOff},
		{1320, ShiftNight}, // 22:00 exactly
		{1439, ShiftNight},
	}
	for _, tc := range cases {
		if got := classifyMinute(tc.minute); got != tc.want {
			t.Fatalf("minute %d: expected %s, got %s", tc.minute, tc.want, got)
		}
	}
}

func TestClassifyExcelFraction(t *testing.T) {
	if got := Classify("0.625"); got != ShiftAfternoon {
		t.Fatalf("0.625 is 15:00, expected afternoon, got %s", got)
	}
	if got := Classify("0.3333333333"); got != ShiftMorning {
		t.Fatalf("0.3333 is 08:00, expected morning, got %s", got)
	}
	// 0.25 = 06:00 falls inside the midnight wrap.
	if got := Classify("0.25"); got != ShiftNight {
		t.Fatalf("0.25 is 06:00, expected night, got %s", got)
	}
	if got := Classify("0.9375"); got != ShiftNight {
		t.Fatalf("0.9375 is 22:30, expected night, got %s", got)
	}
}

func TestClassifyStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want ShiftType
	}{
		{"", ShiftOff},
		{"0", ShiftOff},
		{"frei", ShiftOff},
		{"06:45", ShiftMorning},
		{"14:00 - 22:00", ShiftAfternoon},
		{"22:00-06:00", ShiftNight},
		{"Schicht 8:00 bis 16:30", ShiftMorning},
		{"99:99", ShiftOff},
	}
	for _, tc := range cases {
		if got := Classify(tc.raw); got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for m := 0; m < minutesPerDay; m++ {
		switch classifyMinute(m) {
		case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftOff:
		default:
			t.Fatalf("minute %d produced no classification", m)
		}
	}
}
