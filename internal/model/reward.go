package model

import "time"

const (
	EntryStatusActive   = "ACTIVE"
	EntryStatusRedeemed = "REDEEMED"
)

const (
	EntrySourceAttendance = "ATTENDANCE"
	EntrySourceAdjustment = "ADJUSTMENT"
	EntrySourcePromo      = "PROMO"
)

// RewardPointEntry is one row of the reward-point ledger. Entries are never
// deleted; a successful voucher redemption flips status ACTIVE -> REDEEMED.
type RewardPointEntry struct {
	ID           int64     `json:"id"`
	MemberID     int64     `json:"member_id"`
	AttendanceID *int64    `json:"attendance_id"`
	PointsAdded  int       `json:"points_added"`
	Status       string    `json:"status"`
	Source       string    `json:"source"`
	VoucherID    *int64    `json:"voucher_id"`
	EarnedAt     time.Time `json:"earned_at"`
}

// RewardSummary is the caller-facing balance plus history view.
type RewardSummary struct {
	MemberID int64              `json:"member_id"`
	Balance  int                `json:"balance"`
	History  []RewardPointEntry `json:"history"`
}
