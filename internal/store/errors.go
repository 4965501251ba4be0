package store

import (
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
)

// Domain error kinds surfaced by the stores. The HTTP boundary maps these to
// status codes; nothing in this package knows about HTTP.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrAlreadyConverted   = errors.New("attendance already converted to reward points")
	ErrNoPoints           = errors.New("attendance earned no points")
	ErrVoucherInactive    = errors.New("voucher is not active")
	ErrVoucherExpired     = errors.New("voucher is outside its validity window")
	ErrMaxRedemptions     = errors.New("voucher has reached its maximum redemptions")
	ErrVoucherAlreadyUsed = errors.New("voucher was already used by this member")
	ErrVoucherConflict    = errors.New("voucher already used or expired")
)

// InsufficientPointsError reports a redemption attempt that costs more than
// the member's active balance.
type InsufficientPointsError struct {
	Required  int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("Need %d points. You have %d.", e.Required, e.Available)
}

// SQLite extended result codes for uniqueness violations.
const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteConstraintUnique || se.Code() == sqliteConstraintPrimaryKey
	}
	return false
}
