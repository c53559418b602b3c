package calendar

import (
	"testing"
	"time"
)

func TestSundaysOf(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  []string
	}{
		{
			name:  "september 2026",
			year:  2026,
			month: time.September,
			want:  []string{"2026-09-06", "2026-09-13", "2026-09-20", "2026-09-27"},
		},
		{
			name:  "month starting on a sunday",
			year:  2026,
			month: time.February,
			want:  []string{"2026-02-01", "2026-02-08", "2026-02-15", "2026-02-22"},
		},
		{
			name:  "five sunday month",
			year:  2026,
			month: time.March,
			want:  []string{"2026-03-01", "2026-03-08", "2026-03-15", "2026-03-22", "2026-03-29"},
		},
		{
			name:  "leap february",
			year:  2024,
			month: time.February,
			want:  []string{"2024-02-04", "2024-02-11", "2024-02-18", "2024-02-25"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sundaysOf(tc.year, tc.month)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d sundays, want %d", len(got), len(tc.want))
			}
			for i, day := range got {
				if day.Date != tc.want[i] {
					t.Errorf("sunday %d: got %s, want %s", i, day.Date, tc.want[i])
				}
				if day.Kind != DayKindSunday {
					t.Errorf("sunday %d: kind %s", i, day.Kind)
				}
				parsed, err := time.Parse("2006-01-02", day.Date)
				if err != nil {
					t.Fatalf("unparseable date %s: %v", day.Date, err)
				}
				if parsed.Weekday() != time.Sunday {
					t.Errorf("%s is a %s, not a Sunday", day.Date, parsed.Weekday())
				}
			}
		})
	}
}

func TestMergeDaysOffSortsByDate(t *testing.T) {
	sundays := sundaysOf(2026, time.September)
	holidays := []DayOff{
		{Date: "2026-09-05", Name: "Teachers' Day", Kind: DayKindHoliday},
		{Date: "2026-09-14", Name: "Ganesh Chaturthi", Kind: DayKindHoliday},
	}

	merged := mergeDaysOff(sundays, holidays)
	if len(merged) != len(sundays)+len(holidays) {
		t.Fatalf("got %d entries, want %d", len(merged), len(sundays)+len(holidays))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i-1].Date > merged[i].Date {
			t.Errorf("entries out of order: %s before %s", merged[i-1].Date, merged[i].Date)
		}
	}
}
