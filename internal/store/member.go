package store

import (
	"database/sql"
	"fmt"

	"github.com/gymledger/gymledger/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	var active int

	err := scanner.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &active, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	m.Active = active != 0
	return &m, nil
}

const memberCols = `id, name, email, role, active, created_at`

func (s *MemberStore) Create(name, email, passwordHash, role string) (*model.Member, error) {
	result, err := s.db.Exec(
		`INSERT INTO members (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// GetCredentials returns the member and stored password hash for a login
// attempt, or nil if the email is unknown.
func (s *MemberStore) GetCredentials(email string) (*model.Member, string, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+`, password_hash FROM members WHERE email = ?`, email,
	)
	var m model.Member
	var active int
	var hash string
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &active, &m.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get credentials: %w", err)
	}
	m.Active = active != 0
	return &m, hash, nil
}

func (s *MemberStore) List() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM members ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) Update(id int64, name, email, role string, active bool) (*model.Member, error) {
	var a int
	if active {
		a = 1
	}

	_, err := s.db.Exec(
		`UPDATE members SET name = ?, email = ?, role = ?, active = ? WHERE id = ?`,
		name, email, role, a, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

// Deactivate soft-disables an account. Member rows are never hard-deleted so
// attendance and ledger history stay attributable.
func (s *MemberStore) Deactivate(id int64) error {
	result, err := s.db.Exec(`UPDATE members SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate member: %w", err)
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
