package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gymledger/gymledger/internal/model"
)

type ClassSessionStore struct {
	db *sql.DB
}

func NewClassSessionStore(db *sql.DB) *ClassSessionStore {
	return &ClassSessionStore{db: db}
}

func scanClassSession(scanner interface{ Scan(...any) error }) (*model.ClassSession, error) {
	var c model.ClassSession

	err := scanner.Scan(&c.ID, &c.Name, &c.Trainer, &c.StartsAt, &c.EndsAt, &c.Capacity)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const classSessionCols = `id, name, trainer, starts_at, ends_at, capacity`

func (s *ClassSessionStore) Create(name, trainer string, startsAt, endsAt time.Time, capacity int) (*model.ClassSession, error) {
	result, err := s.db.Exec(
		`INSERT INTO class_sessions (name, trainer, starts_at, ends_at, capacity) VALUES (?, ?, ?, ?, ?)`,
		name, trainer, startsAt.UTC(), endsAt.UTC(), capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert class session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ClassSessionStore) GetByID(id int64) (*model.ClassSession, error) {
	row := s.db.QueryRow(`SELECT `+classSessionCols+` FROM class_sessions WHERE id = ?`, id)
	c, err := scanClassSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get class session: %w", err)
	}
	return c, nil
}

func (s *ClassSessionStore) List() ([]model.ClassSession, error) {
	rows, err := s.db.Query(`SELECT ` + classSessionCols + ` FROM class_sessions ORDER BY starts_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.ClassSession
	for rows.Next() {
		c, err := scanClassSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class session: %w", err)
		}
		sessions = append(sessions, *c)
	}
	return sessions, rows.Err()
}

func (s *ClassSessionStore) Update(id int64, name, trainer string, startsAt, endsAt time.Time, capacity int) (*model.ClassSession, error) {
	_, err := s.db.Exec(
		`UPDATE class_sessions SET name = ?, trainer = ?, starts_at = ?, ends_at = ?, capacity = ? WHERE id = ?`,
		name, trainer, startsAt.UTC(), endsAt.UTC(), capacity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update class session: %w", err)
	}
	return s.GetByID(id)
}

func (s *ClassSessionStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM class_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete class session: %w", err)
	}
	return nil
}
