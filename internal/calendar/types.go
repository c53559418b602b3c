package calendar

// DayKindHoliday marks a public holiday entry, DayKindSunday a computed Sunday.
const (
	DayKindHoliday = "holiday"
	DayKindSunday  = "sunday"
)

// DayOff is a single non-working day within a month.
type DayOff struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// MonthView is the combined calendar for one month.
type MonthView struct {
	Year    int      `json:"year"`
	Month   int      `json:"month"`
	DaysOff []DayOff `json:"daysOff"`
}

type googleEventsResponse struct {
	Items []googleEvent `json:"items"`
}

type googleEvent struct {
	Summary string          `json:"summary"`
	Start   googleEventDate `json:"start"`
}

type googleEventDate struct {
	Date string `json:"date"`
}
