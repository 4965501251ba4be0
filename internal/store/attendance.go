package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gymledger/gymledger/internal/model"
	"github.com/gymledger/gymledger/internal/points"
)

type AttendanceStore struct {
	db *sql.DB
}

func NewAttendanceStore(db *sql.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

func scanAttendance(scanner interface{ Scan(...any) error }) (*model.AttendanceRecord, error) {
	var r model.AttendanceRecord
	var sessionID sql.NullInt64
	var checkOut sql.NullTime
	var duration sql.NullInt64
	var deleted int

	err := scanner.Scan(&r.ID, &r.MemberID, &sessionID, &r.CheckInAt, &checkOut, &duration, &r.PointsEarned, &deleted, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	if sessionID.Valid {
		r.SessionID = &sessionID.Int64
	}
	if checkOut.Valid {
		t := checkOut.Time
		r.CheckOutAt = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		r.DurationMinutes = &d
	}
	r.Deleted = deleted != 0
	return &r, nil
}

const attendanceCols = `id, member_id, session_id, check_in_time, check_out_time, duration_minutes, points_earned, deleted, created_at`

// CheckIn opens a new attendance record. The partial unique index on open
// records rejects a second check-in while one is still open.
func (s *AttendanceStore) CheckIn(memberID int64, sessionID *int64, at time.Time) (*model.AttendanceRecord, error) {
	var sID sql.NullInt64
	if sessionID != nil {
		sID = sql.NullInt64{Int64: *sessionID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO attendance_records (member_id, session_id, check_in_time) VALUES (?, ?, ?)`,
		memberID, sID, at.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AttendanceStore) GetByID(id int64) (*model.AttendanceRecord, error) {
	row := s.db.QueryRow(`SELECT `+attendanceCols+` FROM attendance_records WHERE id = ? AND deleted = 0`, id)
	r, err := scanAttendance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return r, nil
}

// Checkout closes an open attendance record owned by memberID and awards
// points for the elapsed duration, clamped by the member's remaining daily
// and weekly budget. The aggregate reads and the guarded update run in one
// transaction; a record that is already checked out (or lost the race to a
// concurrent checkout) reports ErrNotFound and never re-awards points.
func (s *AttendanceStore) Checkout(id, memberID int64, now time.Time) (*model.AttendanceRecord, *model.CheckoutSummary, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+attendanceCols+` FROM attendance_records WHERE id = ? AND member_id = ? AND deleted = 0`,
		id, memberID,
	)
	rec, err := scanAttendance(row)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load attendance: %w", err)
	}
	if rec.CheckOutAt != nil {
		return nil, nil, ErrNotFound
	}

	duration := points.DurationMinutes(rec.CheckInAt, now)

	dayStart, dayEnd := points.DayBounds(now)
	earnedToday, err := s.pointsEarnedBetween(tx, memberID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, err
	}
	weekStart, weekEnd := points.WeekBounds(now)
	earnedWeek, err := s.pointsEarnedBetween(tx, memberID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, err
	}

	award, err := points.Award(duration, earnedToday, earnedWeek)
	if err != nil {
		return nil, nil, err
	}

	result, err := tx.Exec(
		`UPDATE attendance_records
		 SET check_out_time = ?, duration_minutes = ?, points_earned = ?
		 WHERE id = ? AND check_out_time IS NULL AND deleted = 0`,
		now.UTC(), duration, award, id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("close attendance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit checkout: %w", err)
	}

	out := now.UTC()
	rec.CheckOutAt = &out
	rec.DurationMinutes = &duration
	rec.PointsEarned = award

	summary := &model.CheckoutSummary{
		DurationMinutes: duration,
		PointsEarned:    award,
		DailyTotal:      earnedToday + award,
		WeeklyTotal:     earnedWeek + award,
		DailyRemaining:  points.DailyCap - (earnedToday + award),
		WeeklyRemaining: points.WeeklyCap - (earnedWeek + award),
	}
	return rec, summary, nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *AttendanceStore) pointsEarnedBetween(q querier, memberID int64, start, end time.Time) (int, error) {
	var total sql.NullInt64
	err := q.QueryRow(
		`SELECT COALESCE(SUM(points_earned), 0) FROM attendance_records
		 WHERE member_id = ? AND deleted = 0
		   AND check_out_time IS NOT NULL AND check_out_time >= ? AND check_out_time < ?`,
		memberID, start.UTC(), end.UTC(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum points earned: %w", err)
	}
	return int(total.Int64), nil
}

// PointsEarnedToday sums the member's awarded points for the local day
// containing now.
func (s *AttendanceStore) PointsEarnedToday(memberID int64, now time.Time) (int, error) {
	start, end := points.DayBounds(now)
	return s.pointsEarnedBetween(s.db, memberID, start, end)
}

// PointsEarnedThisWeek sums the member's awarded points for the ISO week
// containing now.
func (s *AttendanceStore) PointsEarnedThisWeek(memberID int64, now time.Time) (int, error) {
	start, end := points.WeekBounds(now)
	return s.pointsEarnedBetween(s.db, memberID, start, end)
}

func (s *AttendanceStore) ListByMember(memberID int64) ([]model.AttendanceRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+attendanceCols+` FROM attendance_records
		 WHERE member_id = ? AND deleted = 0 ORDER BY check_in_time DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// SoftDelete flags a record as deleted. Rows are never removed.
func (s *AttendanceStore) SoftDelete(id int64) error {
	result, err := s.db.Exec(`UPDATE attendance_records SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("soft delete attendance: %w", err)
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
