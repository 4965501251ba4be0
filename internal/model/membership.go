package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MembershipActive    = "ACTIVE"
	MembershipExpired   = "EXPIRED"
	MembershipCancelled = "CANCELLED"
)

type Membership struct {
	ID        int64           `json:"id"`
	MemberID  int64           `json:"member_id"`
	PlanName  string          `json:"plan_name"`
	Price     decimal.Decimal `json:"price"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
