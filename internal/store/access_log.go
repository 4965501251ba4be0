package store

import (
	"database/sql"
	"fmt"

	"github.com/gymledger/gymledger/internal/model"
)

type AccessLogStore struct {
	db *sql.DB
}

func NewAccessLogStore(db *sql.DB) *AccessLogStore {
	return &AccessLogStore{db: db}
}

const accessLogCols = `id, member_id, event, detail, created_at`

// Record appends one access-log row. Failures are the caller's to log and
// swallow; access logging never blocks the operation it describes.
func (s *AccessLogStore) Record(memberID *int64, event, detail string) error {
	var mID sql.NullInt64
	if memberID != nil {
		mID = sql.NullInt64{Int64: *memberID, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO access_logs (member_id, event, detail) VALUES (?, ?, ?)`,
		mID, event, detail,
	)
	if err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}
	return nil
}

func (s *AccessLogStore) List(limit int) ([]model.AccessLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := s.db.Query(
		`SELECT `+accessLogCols+` FROM access_logs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list access logs: %w", err)
	}
	defer rows.Close()

	var logs []model.AccessLog
	for rows.Next() {
		var l model.AccessLog
		var mID sql.NullInt64
		if err := rows.Scan(&l.ID, &mID, &l.Event, &l.Detail, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan access log: %w", err)
		}
		if mID.Valid {
			l.MemberID = &mID.Int64
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
