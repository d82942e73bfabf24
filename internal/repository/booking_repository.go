package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides CRUD operations for dated lab bookings.
// Bookings reference labs by name and users by college ID; all
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking in pending state. On success the booking's ID
// and CreatedAt are populated.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (college_id, lab_name, booking_date, start_time, end_time, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.CollegeID, b.LabName, b.BookingDate, b.StartTime, b.EndTime, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the row to populate timestamps and defaults.
	const sel = `SELECT id, college_id, lab_name, booking_date, start_time, end_time, status, created_at, updated_at
	             FROM bookings WHERE id = ?`
	var updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.CollegeID, &b.LabName, &b.BookingDate, &b.StartTime, &b.EndTime,
		&b.Status, &b.CreatedAt, &updatedAt,
	)
	if err != nil {
		return err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		b.UpdatedAt = &t
	}
	return nil
}

// GetByID retrieves a booking by its id (no ownership check).
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, college_id, lab_name, booking_date, start_time, end_time, status, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.CollegeID, &b.LabName, &b.BookingDate, &b.StartTime, &b.EndTime,
		&b.Status, &b.CreatedAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		b.UpdatedAt = &t
	}
	return &b, nil
}

// GetByIDForUser retrieves a booking while enforcing ownership.
// Returns ErrBookingNotFound when the booking does not exist and
// ErrForbidden when it belongs to a different user.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id uint64, collegeID string) (*model.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CollegeID != collegeID {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListByUser returns all bookings of a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, collegeID string) ([]model.Booking, error) {
	const q = `SELECT id, college_id, lab_name, booking_date, start_time, end_time, status, created_at, updated_at
	           FROM bookings
	           WHERE college_id = ?
	           ORDER BY created_at DESC, id DESC`
	return r.scanBookings(ctx, q, collegeID)
}

// ListAll returns every booking, newest first. Admin use.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT id, college_id, lab_name, booking_date, start_time, end_time, status, created_at, updated_at
	           FROM bookings
	           ORDER BY created_at DESC, id DESC`
	return r.scanBookings(ctx, q)
}

// ListByStatus returns bookings in the given status, oldest first so an
// admin works the approval queue in arrival order.
func (r *BookingRepo) ListByStatus(ctx context.Context, status string) ([]model.Booking, error) {
	const q = `SELECT id, college_id, lab_name, booking_date, start_time, end_time, status, created_at, updated_at
	           FROM bookings
	           WHERE status = ?
	           ORDER BY created_at, id`
	return r.scanBookings(ctx, q, status)
}

// UpdateStatus moves a booking to the given status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// UpdateTimes rewrites a booking's date and time range and resets it to
// pending so it goes through approval again.
func (r *BookingRepo) UpdateTimes(ctx context.Context, id uint64, date, start, end string) error {
	const q = `UPDATE bookings
	           SET booking_date = ?, start_time = ?, end_time = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, date, start, end, model.BookingPending, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Delete removes a booking.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM bookings WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// HasOverlap reports whether any non-rejected booking of the lab on the
// date intersects the half-open range [start, end). excludeID skips one
// booking, so a modify does not collide with itself; pass 0 on create.
func (r *BookingRepo) HasOverlap(ctx context.Context, labName, date, start, end string, excludeID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE lab_name = ? AND booking_date = ? AND status <> ?
	             AND start_time < ? AND end_time > ?
	             AND id <> ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, labName, date, model.BookingRejected, end, start, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasApprovedOverlap is like HasOverlap but only counts approved
// bookings. Used at approval time, where competing pending requests must
// not block the decision.
func (r *BookingRepo) HasApprovedOverlap(ctx context.Context, labName, date, start, end string, excludeID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE lab_name = ? AND booking_date = ? AND status = ?
	             AND start_time < ? AND end_time > ?
	             AND id <> ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, labName, date, model.BookingApproved, end, start, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BookingRepo) scanBookings(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&b.ID, &b.CollegeID, &b.LabName, &b.BookingDate, &b.StartTime, &b.EndTime,
			&b.Status, &b.CreatedAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			b.UpdatedAt = &t
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
