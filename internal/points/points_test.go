package points

import (
	"errors"
	"testing"
	"time"
)

func TestAwardLongWorkoutClampedToWorkoutCap(t *testing.T) {
	// 200-minute workout, nothing earned yet today or this week.
	got, err := Award(200, 0, 0)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if got != 120 {
		t.Errorf("award = %d, want 120", got)
	}
}

func TestAwardDailyBudgetBinds(t *testing.T) {
	// 100 points already earned today; a 50-minute workout only gets the
	// remaining 20.
	got, err := Award(50, 100, 100)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if got != 20 {
		t.Errorf("award = %d, want 20", got)
	}
}

func TestAwardWeeklyBudgetBinds(t *testing.T) {
	got, err := Award(90, 0, 590)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if got != 10 {
		t.Errorf("award = %d, want 10", got)
	}
}

func TestAwardShortWorkout(t *testing.T) {
	got, err := Award(45, 0, 0)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if got != 45 {
		t.Errorf("award = %d, want 45", got)
	}
}

func TestAwardDailyCapExhausted(t *testing.T) {
	_, err := Award(30, 120, 200)
	if !errors.Is(err, ErrDailyCapReached) {
		t.Fatalf("err = %v, want ErrDailyCapReached", err)
	}
}

func TestAwardWeeklyCapExhausted(t *testing.T) {
	_, err := Award(30, 0, 600)
	if !errors.Is(err, ErrWeeklyCapReached) {
		t.Fatalf("err = %v, want ErrWeeklyCapReached", err)
	}
}

func TestAwardNeverNegative(t *testing.T) {
	got, err := Award(-5, 0, 0)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if got != 0 {
		t.Errorf("award = %d, want 0", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	in := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		out  time.Time
		want int
	}{
		{"whole minutes", in.Add(90 * time.Minute), 90},
		{"floors partial minute", in.Add(90*time.Minute + 59*time.Second), 90},
		{"clock skew never negative", in.Add(-2 * time.Minute), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DurationMinutes(in, tc.out); got != tc.want {
				t.Errorf("duration = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)
	start, end := DayBounds(at)
	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)) {
		t.Errorf("end = %v", end)
	}
}

func TestWeekBoundsStartsMonday(t *testing.T) {
	// 2025-03-12 is a Wednesday; its ISO week starts Monday 2025-03-10.
	at := time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local)
	start, end := WeekBounds(at)
	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("start = %v, want Monday 2025-03-10", start)
	}
	if !end.Equal(time.Date(2025, 3, 17, 0, 0, 0, 0, time.Local)) {
		t.Errorf("end = %v, want Monday 2025-03-17", end)
	}
}

func TestWeekBoundsSundayBelongsToSameWeek(t *testing.T) {
	// 2025-03-16 is a Sunday; it closes the week that began Monday 2025-03-10.
	at := time.Date(2025, 3, 16, 23, 0, 0, 0, time.Local)
	start, _ := WeekBounds(at)
	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("start = %v, want Monday 2025-03-10", start)
	}
}
