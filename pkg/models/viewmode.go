package models

// ViewMode selects how much of the calendar is visible at once.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewDay   ViewMode = "day"
)

// Label returns the German UI label for the mode.
func (v ViewMode) Label() string {
	switch v {
	case ViewWeek:
		return "Woche"
	case ViewDay:
		return "Tag"
	default:
		return "Monat"
	}
}

// ViewModeFromLabel maps a UI label back to its mode, defaulting to month.
func ViewModeFromLabel(label string) ViewMode {
	switch label {
	case "Woche":
		return ViewWeek
	case "Tag":
		return ViewDay
	default:
		return ViewMonth
	}
}
