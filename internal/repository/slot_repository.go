package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// ErrSlotNotFound is returned when a slot lookup yields no rows.
var ErrSlotNotFound = errors.New("availability slot not found")

// SlotRepo provides methods to work with weekly availability slots.
// Slots recur by weekday name ("Monday".."Sunday") and carry HH:MM
// boundaries; they hold no calendar date.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// Create inserts a single slot record. On success the slot's ID is populated.
func (r *SlotRepo) Create(ctx context.Context, s *model.AvailabilitySlot) error {
	const q = `INSERT INTO availability_slots (lab_id, day_of_week, start_time, end_time)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.LabID, s.DayOfWeek, s.StartTime, s.EndTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple slots in a single statement.
func (r *SlotRepo) CreateBulk(ctx context.Context, slots []model.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO availability_slots (lab_id, day_of_week, start_time, end_time) VALUES `
	args := make([]interface{}, 0, len(slots)*4)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.LabID, s.DayOfWeek, s.StartTime, s.EndTime)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByLab retrieves all slots of a lab ordered by weekday then start time.
func (r *SlotRepo) ListByLab(ctx context.Context, labID uint64) ([]model.AvailabilitySlot, error) {
	const q = `SELECT id, lab_id, day_of_week, start_time, end_time
	           FROM availability_slots
	           WHERE lab_id = ?
	           ORDER BY FIELD(day_of_week,'Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'),
	                    start_time, id`
	rows, err := r.db.QueryContext(ctx, q, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AvailabilitySlot
	for rows.Next() {
		var s model.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.LabID, &s.DayOfWeek, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a slot by its id.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.AvailabilitySlot, error) {
	const q = `SELECT id, lab_id, day_of_week, start_time, end_time
	           FROM availability_slots WHERE id = ?`
	var s model.AvailabilitySlot
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.LabID, &s.DayOfWeek, &s.StartTime, &s.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes a single slot.
func (r *SlotRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM availability_slots WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// DeleteByLab removes all slots of a lab. Used when a lab's weekly
// schedule is replaced wholesale; callers verify the lab first.
func (r *SlotRepo) DeleteByLab(ctx context.Context, labID uint64) error {
	const q = `DELETE FROM availability_slots WHERE lab_id = ?`
	_, err := r.db.ExecContext(ctx, q, labID)
	return err
}
