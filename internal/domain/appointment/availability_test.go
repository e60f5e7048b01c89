package appointment

import (
	"testing"

	"github.com/costuraflow/atelier-scheduler/internal/timeutil"
)

func tod(h, m int) timeutil.TimeOfDay {
	return timeutil.TimeOfDay{Hour: h, Minute: m}
}

func mustDate(t *testing.T, s string) timeutil.Date {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func openDay(weekday int, open, close timeutil.TimeOfDay) *DayHours {
	return &DayHours{Weekday: weekday, Open: &open, Close: &close}
}

func slotStrings(slots []timeutil.TimeOfDay) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}

func assertSlots(t *testing.T, got []timeutil.TimeOfDay, want []string) {
	t.Helper()
	gotStr := slotStrings(got)
	if len(gotStr) != len(want) {
		t.Fatalf("got %d slots %v, want %d %v", len(gotStr), gotStr, len(want), want)
	}
	for i := range want {
		if gotStr[i] != want[i] {
			t.Fatalf("slot[%d] = %s, want %s (all: %v)", i, gotStr[i], want[i], gotStr)
		}
	}
}

// A booking's buffer shields both sides of it, and the candidate grid
// stays anchored to the opening time.
func TestComputeAvailableSlots_BufferAroundBusy(t *testing.T) {
	// A Monday.
	date := mustDate(t, "2025-03-10")
	hours := openDay(1, tod(9, 0), tod(17, 0))
	busy := []BusyInterval{
		{Date: date, Start: tod(10, 30), End: tod(12, 0)},
	}
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ComputeAvailableSlots(date, hours, busy, 60, 15, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlots(t, got, []string{
		"09:00",
		"12:30", "13:00", "13:30", "14:00", "14:30",
		"15:00", "15:30", "16:00",
	})
}

func TestComputeAvailableSlots_ZeroBufferBackToBack(t *testing.T) {
	date := mustDate(t, "2025-03-10")
	hours := openDay(1, tod(9, 0), tod(12, 0))
	busy := []BusyInterval{
		{Date: date, Start: tod(10, 0), End: tod(11, 0)},
	}
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ComputeAvailableSlots(date, hours, busy, 60, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An appointment may end exactly when the booking starts and start
	// exactly when it ends.
	assertSlots(t, got, []string{"09:00", "11:00"})
}

func TestComputeAvailableSlots_ShortServiceUsesOwnStep(t *testing.T) {
	date := mustDate(t, "2025-03-10")
	hours := openDay(1, tod(9, 0), tod(10, 0))
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ComputeAvailableSlots(date, hours, nil, 20, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlots(t, got, []string{"09:00", "09:20", "09:40"})
}

func TestComputeAvailableSlots_TodayDropsElapsedStarts(t *testing.T) {
	date := mustDate(t, "2025-03-10")
	hours := openDay(1, tod(9, 0), tod(17, 0))
	now := timeutil.Combine(date, tod(12, 5))

	got, err := ComputeAvailableSlots(date, hours, nil, 60, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlots(t, got, []string{
		"12:30", "13:00", "13:30", "14:00", "14:30",
		"15:00", "15:30", "16:00",
	})
}

func TestComputeAvailableSlots_OtherDayBusyIgnored(t *testing.T) {
	date := mustDate(t, "2025-03-10")
	hours := openDay(1, tod(9, 0), tod(11, 0))
	busy := []BusyInterval{
		{Date: mustDate(t, "2025-03-11"), Start: tod(9, 0), End: tod(11, 0)},
	}
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ComputeAvailableSlots(date, hours, busy, 60, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlots(t, got, []string{"09:00", "09:30", "10:00"})
}

func TestComputeAvailableSlots_ClosedOrMissingDay(t *testing.T) {
	date := mustDate(t, "2025-03-10")
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	got, err := ComputeAvailableSlots(date, &DayHours{Weekday: 1, Closed: true}, nil, 60, 0, now)
	if err != nil {
		t.Fatalf("closed day: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("closed day yielded %v", slotStrings(got))
	}

	got, err = ComputeAvailableSlots(date, nil, nil, 60, 0, now)
	if err != nil {
		t.Fatalf("missing day: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("missing day yielded %v", slotStrings(got))
	}
}

func TestComputeAvailableSlots_InvalidInput(t *testing.T) {
	date := mustDate(t, "2025-03-10")
	hours := openDay(1, tod(9, 0), tod(17, 0))
	now := timeutil.Combine(mustDate(t, "2025-03-01"), tod(8, 0))

	tests := []struct {
		name  string
		hours *DayHours
		busy  []BusyInterval
		dur   int
		buf   int
	}{
		{name: "zero duration", hours: hours, dur: 0, buf: 0},
		{name: "negative duration", hours: hours, dur: -30, buf: 0},
		{name: "negative buffer", hours: hours, dur: 60, buf: -1},
		{
			name:  "open after close",
			hours: openDay(1, tod(17, 0), tod(9, 0)),
			dur:   60,
		},
		{
			name:  "empty busy interval",
			hours: hours,
			busy:  []BusyInterval{{Date: date, Start: tod(10, 0), End: tod(10, 0)}},
			dur:   60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeAvailableSlots(date, tt.hours, tt.busy, tt.dur, tt.buf, now)
			if err == nil {
				t.Fatal("want error, got none")
			}
			if !IsValidation(err) {
				t.Fatalf("want ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestSlotWindows(t *testing.T) {
	windows := SlotWindows([]timeutil.TimeOfDay{tod(9, 0), tod(16, 30)}, 45)
	if len(windows) != 2 {
		t.Fatalf("got %d windows", len(windows))
	}
	if windows[0].Start != "09:00" || windows[0].End != "09:45" {
		t.Fatalf("windows[0] = %+v", windows[0])
	}
	if windows[1].Start != "16:30" || windows[1].End != "17:15" {
		t.Fatalf("windows[1] = %+v", windows[1])
	}
}
