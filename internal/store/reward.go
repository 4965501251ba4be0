package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gymledger/gymledger/internal/model"
)

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

func scanEntry(scanner interface{ Scan(...any) error }) (*model.RewardPointEntry, error) {
	var e model.RewardPointEntry
	var attendanceID sql.NullInt64
	var voucherID sql.NullInt64

	err := scanner.Scan(&e.ID, &e.MemberID, &attendanceID, &e.PointsAdded, &e.Status, &e.Source, &voucherID, &e.EarnedAt)
	if err != nil {
		return nil, err
	}

	if attendanceID.Valid {
		e.AttendanceID = &attendanceID.Int64
	}
	if voucherID.Valid {
		e.VoucherID = &voucherID.Int64
	}
	return &e, nil
}

const entryCols = `id, member_id, attendance_id, points_added, status, source, voucher_id, earned_at`

// Balance is the derived sum of ACTIVE entries. There is no stored total to
// go stale.
func (s *RewardStore) Balance(memberID int64) (int, error) {
	return s.balance(s.db, memberID)
}

func (s *RewardStore) balance(q querier, memberID int64) (int, error) {
	var total sql.NullInt64
	err := q.QueryRow(
		`SELECT COALESCE(SUM(points_added), 0) FROM reward_point_entries WHERE member_id = ? AND status = ?`,
		memberID, model.EntryStatusActive,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum active entries: %w", err)
	}
	return int(total.Int64), nil
}

func (s *RewardStore) History(memberID int64) ([]model.RewardPointEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM reward_point_entries WHERE member_id = ? ORDER BY earned_at DESC, id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.RewardPointEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ConvertAttendance turns a checked-out attendance record's earned points
// into one ACTIVE ledger entry, at most once per record. The unique index on
// attendance_id backs the check under races.
func (s *RewardStore) ConvertAttendance(attendanceID, memberID int64) (*model.RewardPointEntry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin conversion: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+attendanceCols+` FROM attendance_records WHERE id = ? AND deleted = 0`,
		attendanceID,
	)
	rec, err := scanAttendance(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	if rec.MemberID != memberID || rec.CheckOutAt == nil {
		return nil, ErrNotFound
	}
	if rec.PointsEarned <= 0 {
		return nil, ErrNoPoints
	}

	var existing int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM reward_point_entries WHERE attendance_id = ?`, attendanceID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("check conversion: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyConverted
	}

	result, err := tx.Exec(
		`INSERT INTO reward_point_entries (member_id, attendance_id, points_added, status, source)
		 VALUES (?, ?, ?, ?, ?)`,
		memberID, attendanceID, rec.PointsEarned, model.EntryStatusActive, model.EntrySourceAttendance,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyConverted
		}
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row = tx.QueryRow(`SELECT `+entryCols+` FROM reward_point_entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("reload entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit conversion: %w", err)
	}
	return entry, nil
}

// RedemptionResult reports a successful points-funded redemption.
type RedemptionResult struct {
	VoucherCode      string `json:"voucher_code"`
	PointsSpent      int    `json:"points_spent"`
	RemainingBalance int    `json:"remaining_balance"`
}

// RedeemVoucher spends exactly the voucher's points-required from the
// member's ACTIVE entries (oldest first) and increments the voucher's use
// counter, all in one transaction. If the oldest-first selection overshoots
// the cost, the overshooting entry is flipped and an ACTIVE remainder entry
// is inserted so the balance drops by exactly the cost.
func (s *RewardStore) RedeemVoucher(memberID, voucherID int64, now time.Time) (*RedemptionResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin redemption: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+voucherCols+` FROM vouchers WHERE id = ?`, voucherID)
	v, err := scanVoucher(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load voucher: %w", err)
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

	balance, err := s.balance(tx, memberID)
	if err != nil {
		return nil, err
	}
	if balance < v.PointsRequired {
		return nil, &InsufficientPointsError{Required: v.PointsRequired, Available: balance}
	}

	if v.PointsRequired > 0 {
		if err := s.spendPoints(tx, memberID, voucherID, v.PointsRequired); err != nil {
			return nil, err
		}
	}

	result, err := tx.Exec(
		`UPDATE vouchers
		 SET use_count = use_count + 1, last_used_by = ?
		 WHERE id = ? AND status = ? AND use_count < max_uses
		   AND valid_from <= ? AND valid_until >= ?`,
		memberID, voucherID, model.VoucherStatusActive, today, today,
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

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit redemption: %w", err)
	}

	return &RedemptionResult{
		VoucherCode:      v.Code,
		PointsSpent:      v.PointsRequired,
		RemainingBalance: balance - v.PointsRequired,
	}, nil
}

// spendPoints flips ACTIVE entries oldest-first until exactly cost points
// are REDEEMED. Each flip re-checks the entry is still ACTIVE so two
// redemptions can never double-select an entry.
func (s *RewardStore) spendPoints(tx *sql.Tx, memberID, voucherID int64, cost int) error {
	rows, err := tx.Query(
		`SELECT id, points_added FROM reward_point_entries
		 WHERE member_id = ? AND status = ? ORDER BY earned_at ASC, id ASC`,
		memberID, model.EntryStatusActive,
	)
	if err != nil {
		return fmt.Errorf("select active entries: %w", err)
	}

	type pick struct {
		id     int64
		points int
	}
	var picks []pick
	covered := 0
	for rows.Next() {
		var p pick
		if err := rows.Scan(&p.id, &p.points); err != nil {
			rows.Close()
			return fmt.Errorf("scan entry: %w", err)
		}
		picks = append(picks, p)
		covered += p.points
		if covered >= cost {
			break
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate entries: %w", err)
	}
	if covered < cost {
		return &InsufficientPointsError{Required: cost, Available: covered}
	}

	for _, p := range picks {
		result, err := tx.Exec(
			`UPDATE reward_point_entries SET status = ?, voucher_id = ? WHERE id = ? AND status = ?`,
			model.EntryStatusRedeemed, voucherID, p.id, model.EntryStatusActive,
		)
		if err != nil {
			return fmt.Errorf("flip entry: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return ErrVoucherConflict
		}
	}

	if overshoot := covered - cost; overshoot > 0 {
		_, err := tx.Exec(
			`INSERT INTO reward_point_entries (member_id, points_added, status, source)
			 VALUES (?, ?, ?, ?)`,
			memberID, overshoot, model.EntryStatusActive, model.EntrySourceAdjustment,
		)
		if err != nil {
			return fmt.Errorf("insert remainder entry: %w", err)
		}
	}
	return nil
}
