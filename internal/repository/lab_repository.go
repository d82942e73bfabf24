package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// ErrLabNotFound is returned when a lab lookup yields no rows.
var ErrLabNotFound = errors.New("lab not found")

// ErrLabNameExists is returned when creating a lab whose name is taken.
var ErrLabNameExists = errors.New("lab name already exists")

// LabRepo provides CRUD operations for labs. Equipment is stored as a
// JSON-encoded array in a TEXT column so it can be searched with LIKE
// without a join table.
type LabRepo struct {
	db *sql.DB
}

// NewLabRepo constructs a LabRepo with the given DB handle.
func NewLabRepo(db *sql.DB) *LabRepo {
	return &LabRepo{db: db}
}

// Create inserts a lab record. On success the lab's ID is populated.
func (r *LabRepo) Create(ctx context.Context, l *model.Lab) error {
	eq, err := encodeEquipment(l.Equipment)
	if err != nil {
		return err
	}
	const q = `INSERT INTO labs (name, capacity, equipment) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Capacity, eq)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrLabNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID retrieves a lab by its id.
func (r *LabRepo) GetByID(ctx context.Context, id uint64) (*model.Lab, error) {
	const q = `SELECT id, name, capacity, equipment, created_at, updated_at FROM labs WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByName retrieves a lab by its unique name.
func (r *LabRepo) GetByName(ctx context.Context, name string) (*model.Lab, error) {
	const q = `SELECT id, name, capacity, equipment, created_at, updated_at FROM labs WHERE name = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

// List retrieves all labs ordered by id.
func (r *LabRepo) List(ctx context.Context) ([]model.Lab, error) {
	const q = `SELECT id, name, capacity, equipment, created_at, updated_at FROM labs ORDER BY id`
	return r.scanMany(ctx, q)
}

// SearchByEquipment retrieves labs whose equipment list contains the given
// term (case-insensitive substring over the stored JSON).
func (r *LabRepo) SearchByEquipment(ctx context.Context, term string) ([]model.Lab, error) {
	const q = `SELECT id, name, capacity, equipment, created_at, updated_at
	           FROM labs
	           WHERE LOWER(equipment) LIKE ?
	           ORDER BY id`
	return r.scanMany(ctx, q, "%"+strings.ToLower(term)+"%")
}

// Update rewrites name, capacity and equipment of a lab.
// Returns ErrLabNotFound when the lab does not exist.
func (r *LabRepo) Update(ctx context.Context, l *model.Lab) error {
	eq, err := encodeEquipment(l.Equipment)
	if err != nil {
		return err
	}
	const q = `UPDATE labs SET name = ?, capacity = ?, equipment = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Capacity, eq, l.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrLabNameExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLabNotFound
	}
	return nil
}

// Delete removes a lab. Labs with bookings cannot be deleted; the
// foreign key on bookings.lab_name makes MySQL reject the delete, which
// is surfaced as ErrConflict.
func (r *LabRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM labs WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		// MySQL 1451: row is referenced by a foreign key.
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLabNotFound
	}
	return nil
}

func (r *LabRepo) scanOne(row *sql.Row) (*model.Lab, error) {
	var l model.Lab
	var eq sql.NullString
	err := row.Scan(&l.ID, &l.Name, &l.Capacity, &eq, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLabNotFound
		}
		return nil, err
	}
	l.Equipment, err = decodeEquipment(eq)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LabRepo) scanMany(ctx context.Context, q string, args ...interface{}) ([]model.Lab, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Lab
	for rows.Next() {
		var l model.Lab
		var eq sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &l.Capacity, &eq, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		if l.Equipment, err = decodeEquipment(eq); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// encodeEquipment serializes the equipment list; nil becomes "[]" so the
// column is never NULL for new rows.
func encodeEquipment(eq []string) (string, error) {
	if eq == nil {
		eq = []string{}
	}
	b, err := json.Marshal(eq)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeEquipment tolerates NULL and empty columns from older rows.
func decodeEquipment(col sql.NullString) ([]string, error) {
	if !col.Valid || strings.TrimSpace(col.String) == "" {
		return []string{}, nil
	}
	var eq []string
	if err := json.Unmarshal([]byte(col.String), &eq); err != nil {
		return nil, err
	}
	return eq, nil
}
