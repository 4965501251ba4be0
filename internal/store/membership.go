package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/model"
)

type MembershipStore struct {
	db *sql.DB
}

func NewMembershipStore(db *sql.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

func scanMembership(scanner interface{ Scan(...any) error }) (*model.Membership, error) {
	var m model.Membership

	err := scanner.Scan(&m.ID, &m.MemberID, &m.PlanName, &m.Price, &m.StartDate, &m.EndDate, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const membershipCols = `id, member_id, plan_name, price, start_date, end_date, status, created_at`

func (s *MembershipStore) Create(memberID int64, planName string, price decimal.Decimal, startDate, endDate string) (*model.Membership, error) {
	result, err := s.db.Exec(
		`INSERT INTO memberships (member_id, plan_name, price, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		memberID, planName, price.String(), startDate, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MembershipStore) GetByID(id int64) (*model.Membership, error) {
	row := s.db.QueryRow(`SELECT `+membershipCols+` FROM memberships WHERE id = ?`, id)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

func (s *MembershipStore) List() ([]model.Membership, error) {
	rows, err := s.db.Query(`SELECT ` + membershipCols + ` FROM memberships ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, *m)
	}
	return memberships, rows.Err()
}

func (s *MembershipStore) ListByMember(memberID int64) ([]model.Membership, error) {
	rows, err := s.db.Query(
		`SELECT `+membershipCols+` FROM memberships WHERE member_id = ? ORDER BY start_date DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships by member: %w", err)
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, *m)
	}
	return memberships, rows.Err()
}

func (s *MembershipStore) Update(id int64, planName string, price decimal.Decimal, startDate, endDate, status string) (*model.Membership, error) {
	_, err := s.db.Exec(
		`UPDATE memberships SET plan_name = ?, price = ?, start_date = ?, end_date = ?, status = ? WHERE id = ?`,
		planName, price.String(), startDate, endDate, status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update membership: %w", err)
	}
	return s.GetByID(id)
}
