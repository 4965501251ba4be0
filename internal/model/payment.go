package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID           int64           `json:"id"`
	MemberID     int64           `json:"member_id"`
	MembershipID *int64          `json:"membership_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Status       string          `json:"status"`
	PaidAt       time.Time       `json:"paid_at"`
}
