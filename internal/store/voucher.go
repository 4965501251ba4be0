package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/model"
)

type VoucherStore struct {
	db *sql.DB
}

func NewVoucherStore(db *sql.DB) *VoucherStore {
	return &VoucherStore{db: db}
}

func scanVoucher(scanner interface{ Scan(...any) error }) (*model.Voucher, error) {
	var v model.Voucher
	var lastUsedBy sql.NullInt64

	err := scanner.Scan(
		&v.ID, &v.Code, &v.Description, &v.DiscountType, &v.DiscountValue,
		&v.PointsRequired, &v.MinSpend, &v.MaxUses, &v.UseCount,
		&v.ValidFrom, &v.ValidUntil, &v.Status, &lastUsedBy, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastUsedBy.Valid {
		v.LastUsedBy = &lastUsedBy.Int64
	}
	return &v, nil
}

const voucherCols = `id, code, description, discount_type, discount_value, points_required, min_spend, max_uses, use_count, valid_from, valid_until, status, last_used_by, created_at`

// localDate renders t as the inclusive YYYY-MM-DD date vouchers are compared
// against.
func localDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// GenerateCode returns a fresh human-readable voucher code.
func GenerateCode() string {
	return "GYM-" + strings.ToUpper(uuid.NewString()[:8])
}

type VoucherParams struct {
	Code           string
	Description    string
	DiscountType   string
	DiscountValue  decimal.Decimal
	PointsRequired int
	MinSpend       decimal.Decimal
	MaxUses        int
	ValidFrom      string
	ValidUntil     string
}

func (s *VoucherStore) Create(p VoucherParams) (*model.Voucher, error) {
	if p.Code == "" {
		p.Code = GenerateCode()
	}

	result, err := s.db.Exec(
		`INSERT INTO vouchers (code, description, discount_type, discount_value, points_required, min_spend, max_uses, valid_from, valid_until)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Description, p.DiscountType, p.DiscountValue.String(),
		p.PointsRequired, p.MinSpend.String(), p.MaxUses, p.ValidFrom, p.ValidUntil,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert voucher: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *VoucherStore) GetByID(id int64) (*model.Voucher, error) {
	row := s.db.QueryRow(`SELECT `+voucherCols+` FROM vouchers WHERE id = ?`, id)
	v, err := scanVoucher(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

func (s *VoucherStore) GetByCode(code string) (*model.Voucher, error) {
	row := s.db.QueryRow(`SELECT `+voucherCols+` FROM vouchers WHERE code = ?`, code)
	v, err := scanVoucher(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher by code: %w", err)
	}
	return v, nil
}

func (s *VoucherStore) List() ([]model.Voucher, error) {
	rows, err := s.db.Query(`SELECT ` + voucherCols + ` FROM vouchers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []model.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, *v)
	}
	return vouchers, rows.Err()
}

func (s *VoucherStore) Update(id int64, p VoucherParams) (*model.Voucher, error) {
	_, err := s.db.Exec(
		`UPDATE vouchers SET code = ?, description = ?, discount_type = ?, discount_value = ?, points_required = ?, min_spend = ?, max_uses = ?, valid_from = ?, valid_until = ? WHERE id = ?`,
		p.Code, p.Description, p.DiscountType, p.DiscountValue.String(),
		p.PointsRequired, p.MinSpend.String(), p.MaxUses, p.ValidFrom, p.ValidUntil, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update voucher: %w", err)
	}
	return s.GetByID(id)
}

// Deactivate retires a voucher. Voucher rows are never deleted; redeemed
// ledger entries keep pointing at them.
func (s *VoucherStore) Deactivate(id int64) error {
	result, err := s.db.Exec(`UPDATE vouchers SET status = ? WHERE id = ?`, model.VoucherStatusInactive, id)
	if err != nil {
		return fmt.Errorf("deactivate voucher: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Use claims the voucher directly for memberID: a conditional transition
// that succeeds only while the voucher is ACTIVE, under its use limit,
// inside its validity window, and not last used by the same member.
//
// SQLite has no SELECT ... FOR UPDATE; the guarded UPDATE with its
// rows-affected check is the authoritative claim, so the read-time
// validation above it can only improve error messages, never admit a
// double-spend.
func (s *VoucherStore) Use(id, memberID int64, now time.Time) (*model.Voucher, error) {
	v, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	if v.Status != model.VoucherStatusActive {
		return nil, ErrVoucherInactive
	}
	if v.UseCount >= v.MaxUses {
		return nil, ErrMaxRedemptions
	}
	today := localDate(now)
	if today < v.ValidFrom || today > v.ValidUntil {
		return nil, ErrVoucherExpired
	}
	if v.LastUsedBy != nil && *v.LastUsedBy == memberID {
		return nil, ErrVoucherAlreadyUsed
	}

	result, err := s.db.Exec(
		`UPDATE vouchers
		 SET use_count = use_count + 1, last_used_by = ?
		 WHERE id = ? AND status = ? AND use_count < max_uses
		   AND valid_from <= ? AND valid_until >= ?
		   AND (last_used_by IS NULL OR last_used_by <> ?)`,
		memberID, id, model.VoucherStatusActive, today, today, memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("claim voucher: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrVoucherConflict
	}

	return s.GetByID(id)
}

// ResetUse clears the usage counter and last redeemer. Admin action, always
// allowed.
func (s *VoucherStore) ResetUse(id int64) (*model.Voucher, error) {
	result, err := s.db.Exec(`UPDATE vouchers SET use_count = 0, last_used_by = NULL WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("reset voucher use: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}
