package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gymledger/gymledger/internal/model"
)

type EquipmentStore struct {
	db *sql.DB
}

func NewEquipmentStore(db *sql.DB) *EquipmentStore {
	return &EquipmentStore{db: db}
}

func scanEquipment(scanner interface{ Scan(...any) error }) (*model.Equipment, error) {
	var e model.Equipment
	var purchasedAt sql.NullTime
	var deleted int

	err := scanner.Scan(&e.ID, &e.Name, &e.Category, &e.Quantity, &e.Condition, &purchasedAt, &deleted)
	if err != nil {
		return nil, err
	}

	if purchasedAt.Valid {
		t := purchasedAt.Time
		e.PurchasedAt = &t
	}
	e.Deleted = deleted != 0
	return &e, nil
}

const equipmentCols = `id, name, category, quantity, condition, purchased_at, deleted`

func (s *EquipmentStore) Create(name, category string, quantity int, condition string, purchasedAt *time.Time) (*model.Equipment, error) {
	var pAt sql.NullTime
	if purchasedAt != nil {
		pAt = sql.NullTime{Time: purchasedAt.UTC(), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO equipment (name, category, quantity, condition, purchased_at) VALUES (?, ?, ?, ?, ?)`,
		name, category, quantity, condition, pAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert equipment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EquipmentStore) GetByID(id int64) (*model.Equipment, error) {
	row := s.db.QueryRow(`SELECT `+equipmentCols+` FROM equipment WHERE id = ? AND deleted = 0`, id)
	e, err := scanEquipment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return e, nil
}

func (s *EquipmentStore) List() ([]model.Equipment, error) {
	rows, err := s.db.Query(`SELECT ` + equipmentCols + ` FROM equipment WHERE deleted = 0 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var items []model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (s *EquipmentStore) Update(id int64, name, category string, quantity int, condition string) (*model.Equipment, error) {
	_, err := s.db.Exec(
		`UPDATE equipment SET name = ?, category = ?, quantity = ?, condition = ? WHERE id = ? AND deleted = 0`,
		name, category, quantity, condition, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return s.GetByID(id)
}

func (s *EquipmentStore) SoftDelete(id int64) error {
	result, err := s.db.Exec(`UPDATE equipment SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("soft delete equipment: %w", err)
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
