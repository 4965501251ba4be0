// Package points implements the attendance-to-points accrual rules: how many
// points a checked-out workout earns given the member's remaining daily and
// weekly budget.
package points

import (
	"errors"
	"time"
)

const (
	// DailyCap is the maximum points a member can earn per local calendar day.
	DailyCap = 120
	// WeeklyCap is the maximum points a member can earn per ISO week.
	WeeklyCap = 600
	// WorkoutCap is the maximum points a single workout can earn regardless
	// of its duration.
	WorkoutCap = 120
)

var (
	ErrDailyCapReached  = errors.New("daily points cap reached")
	ErrWeeklyCapReached = errors.New("weekly points cap reached")
)

// Award computes the points earned by a workout of the given duration
// (whole minutes) when the member has already earned earnedToday points
// today and earnedWeek points this ISO week. An exhausted budget is a hard
// stop; otherwise the award is clamped to whatever budget remains.
func Award(durationMinutes, earnedToday, earnedWeek int) (int, error) {
	dailyRemaining := DailyCap - earnedToday
	if dailyRemaining <= 0 {
		return 0, ErrDailyCapReached
	}
	weeklyRemaining := WeeklyCap - earnedWeek
	if weeklyRemaining <= 0 {
		return 0, ErrWeeklyCapReached
	}

	award := durationMinutes
	if award > WorkoutCap {
		award = WorkoutCap
	}
	if award > dailyRemaining {
		award = dailyRemaining
	}
	if award > weeklyRemaining {
		award = weeklyRemaining
	}
	if award < 0 {
		award = 0
	}
	return award, nil
}

// DurationMinutes returns the whole minutes between check-in and checkout,
// never negative.
func DurationMinutes(checkIn, checkOut time.Time) int {
	d := int(checkOut.Sub(checkIn).Minutes())
	if d < 0 {
		return 0
	}
	return d
}

// DayBounds returns the half-open local-day window [start, end) containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds returns the half-open ISO-week window [start, end) containing t,
// starting Monday 00:00 local time.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day, _ := DayBounds(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}
