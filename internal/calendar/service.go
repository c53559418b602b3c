// Package calendar serves a month view of non-working days, combining public
// holidays from the Google Calendar API with computed Sundays.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"crm_portal_backend/platform/logger"
)

const googleCalendarBaseURL = "https://www.googleapis.com/calendar/v3/calendars"

type Service struct {
	client     *http.Client
	calendarID string
	apiKey     string
	log        *logger.Logger
}

func NewService(calendarID, apiKey string, log *logger.Logger) *Service {
	return &Service{
		client:     &http.Client{Timeout: 5 * time.Second},
		calendarID: calendarID,
		apiKey:     apiKey,
		log:        log,
	}
}

// MonthView returns holidays and Sundays for the given month. When no API key
// is configured the view contains Sundays only.
func (s *Service) MonthView(ctx context.Context, year, month int) (MonthView, error) {
	view := MonthView{
		Year:    year,
		Month:   month,
		DaysOff: sundaysOf(year, time.Month(month)),
	}

	if s.apiKey == "" {
		return view, nil
	}

	holidays, err := s.fetchHolidays(ctx, year, time.Month(month))
	if err != nil {
		// Holiday lookup is best effort; Sundays alone still make a usable view.
		s.log.Warn("holiday lookup failed", "year", year, "month", month, "error", err.Error())
		return view, nil
	}

	view.DaysOff = mergeDaysOff(view.DaysOff, holidays)
	return view, nil
}

func (s *Service) fetchHolidays(ctx context.Context, year int, month time.Month) ([]DayOff, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	params := url.Values{}
	params.Add("key", s.apiKey)
	params.Add("timeMin", start.Format(time.RFC3339))
	params.Add("timeMax", end.Format(time.RFC3339))
	params.Add("singleEvents", "true")
	params.Add("orderBy", "startTime")

	reqURL := fmt.Sprintf("%s/%s/events?%s", googleCalendarBaseURL, url.PathEscape(s.calendarID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var payload googleEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	holidays := make([]DayOff, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Start.Date == "" {
			continue
		}
		holidays = append(holidays, DayOff{
			Date: item.Start.Date,
			Name: item.Summary,
			Kind: DayKindHoliday,
		})
	}
	return holidays, nil
}

// sundaysOf lists every Sunday of the given month as DayOff entries.
func sundaysOf(year int, month time.Month) []DayOff {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	offset := (7 - int(first.Weekday())) % 7
	day := first.AddDate(0, 0, offset)

	sundays := make([]DayOff, 0, 5)
	for day.Month() == month {
		sundays = append(sundays, DayOff{
			Date: day.Format("2006-01-02"),
			Name: "Sunday",
			Kind: DayKindSunday,
		})
		day = day.AddDate(0, 0, 7)
	}
	return sundays
}

// mergeDaysOff combines Sundays and holidays sorted by date. A holiday that
// falls on a Sunday keeps both entries so clients can render the distinction.
func mergeDaysOff(sundays, holidays []DayOff) []DayOff {
	merged := make([]DayOff, 0, len(sundays)+len(holidays))
	merged = append(merged, sundays...)
	merged = append(merged, holidays...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}
