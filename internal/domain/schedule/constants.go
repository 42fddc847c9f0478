package schedule

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftNight     ShiftType = "night"
	ShiftOff       ShiftType = "off"
)

// Shift window boundaries in minutes of day. These follow the depot's
// labor-agreement shift definitions; the inclusive/exclusive edges are
// contractual, not arbitrary.
const (
	nightLateStart  = 1320 // 22:00, inclusive
	nightWrapEnd    = 390  // 06:30, inclusive
	morningStart    = 300  // 05:00, inclusive
	morningEnd      = 840  // 14:00, exclusive
	afternoonEnd    = 1275 // 21:15, exclusive
	minutesPerDay   = 1440
	defaultShiftLen = 8 * 60 // assumed duration when the plan lists only a start
)

const (
	FormatYearlyCyclic FormatType = "yearly-cyclic"
	FormatWeeklyCyclic FormatType = "weekly-cyclic"
	FormatStandard     FormatType = "standard"
	FormatUnknown      FormatType = "unknown"
)

// DefaultCycleLength is the standard DHL Wechselschicht rotation length.
const DefaultCycleLength = 15

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
