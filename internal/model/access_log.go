package model

import "time"

const (
	AccessCheckIn       = "CHECK_IN"
	AccessCheckOut      = "CHECK_OUT"
	AccessVoucherRedeem = "VOUCHER_REDEEM"
	AccessVoucherUse    = "VOUCHER_USE"
)

type AccessLog struct {
	ID        int64     `json:"id"`
	MemberID  *int64    `json:"member_id"`
	Event     string    `json:"event"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
