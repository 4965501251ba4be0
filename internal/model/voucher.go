package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	VoucherStatusActive   = "ACTIVE"
	VoucherStatusInactive = "INACTIVE"
)

const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

// Voucher is a redeemable discount code shared by all members. UseCount is a
// monotonic counter bounded by MaxUses; ValidFrom/ValidUntil are inclusive
// YYYY-MM-DD dates.
type Voucher struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	PointsRequired int             `json:"points_required"`
	MinSpend       decimal.Decimal `json:"min_spend"`
	MaxUses        int             `json:"max_uses"`
	UseCount       int             `json:"use_count"`
	ValidFrom      string          `json:"valid_from"`
	ValidUntil     string          `json:"valid_until"`
	Status         string          `json:"status"`
	LastUsedBy     *int64          `json:"last_used_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RemainingUses returns how many redemptions the voucher has left.
func (v *Voucher) RemainingUses() int {
	if n := v.MaxUses - v.UseCount; n > 0 {
		return n
	}
	return 0
}
