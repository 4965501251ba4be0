package model

import "time"

// AttendanceRecord is one gym visit. CheckOutAt, DurationMinutes and
// PointsEarned are set exactly once, at checkout.
type AttendanceRecord struct {
	ID              int64      `json:"id"`
	MemberID        int64      `json:"member_id"`
	SessionID       *int64     `json:"session_id"`
	CheckInAt       time.Time  `json:"check_in_at"`
	CheckOutAt      *time.Time `json:"check_out_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	PointsEarned    int        `json:"points_earned"`
	Deleted         bool       `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CheckoutSummary reports the outcome of a checkout: what this workout
// earned and how much daily/weekly budget remains.
type CheckoutSummary struct {
	DurationMinutes int `json:"duration_minutes"`
	PointsEarned    int `json:"points_earned"`
	DailyTotal      int `json:"daily_total"`
	WeeklyTotal     int `json:"weekly_total"`
	DailyRemaining  int `json:"daily_remaining"`
	WeeklyRemaining int `json:"weekly_remaining"`
}
