package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/model"
)

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func scanPayment(scanner interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var membershipID sql.NullInt64

	err := scanner.Scan(&p.ID, &p.MemberID, &membershipID, &p.Amount, &p.Method, &p.Status, &p.PaidAt)
	if err != nil {
		return nil, err
	}

	if membershipID.Valid {
		p.MembershipID = &membershipID.Int64
	}
	return &p, nil
}

const paymentCols = `id, member_id, membership_id, amount, method, status, paid_at`

func (s *PaymentStore) Create(memberID int64, membershipID *int64, amount decimal.Decimal, method string) (*model.Payment, error) {
	var mID sql.NullInt64
	if membershipID != nil {
		mID = sql.NullInt64{Int64: *membershipID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO payments (member_id, membership_id, amount, method) VALUES (?, ?, ?, ?)`,
		memberID, mID, amount.String(), method,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PaymentStore) GetByID(id int64) (*model.Payment, error) {
	row := s.db.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (s *PaymentStore) List() ([]model.Payment, error) {
	rows, err := s.db.Query(`SELECT ` + paymentCols + ` FROM payments ORDER BY paid_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (s *PaymentStore) ListByMember(memberID int64) ([]model.Payment, error) {
	rows, err := s.db.Query(
		`SELECT `+paymentCols+` FROM payments WHERE member_id = ? ORDER BY paid_at DESC, id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments by member: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
