package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotDisabled is returned when enabling a lab that is not disabled
// on the date.
var ErrNotDisabled = errors.New("lab not disabled on this date")

// DisabledLabRepo records per-date administrative closures of labs.
// A row (lab_id, disabled_date) hides the lab from students on that
// date; enabling deletes the row.
type DisabledLabRepo struct {
	db *sql.DB
}

// NewDisabledLabRepo constructs a DisabledLabRepo with the given DB handle.
func NewDisabledLabRepo(db *sql.DB) *DisabledLabRepo {
	return &DisabledLabRepo{db: db}
}

// Disable marks a lab as closed on the date with an optional reason.
// Re-disabling the same date just updates the reason.
func (r *DisabledLabRepo) Disable(ctx context.Context, labID uint64, date string, reason *string) error {
	const q = `INSERT INTO disabled_labs (lab_id, disabled_date, reason) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE reason = VALUES(reason)`
	_, err := r.db.ExecContext(ctx, q, labID, date, reason)
	return err
}

// Enable reopens a lab on the date.
func (r *DisabledLabRepo) Enable(ctx context.Context, labID uint64, date string) error {
	const q = `DELETE FROM disabled_labs WHERE lab_id = ? AND disabled_date = ?`
	res, err := r.db.ExecContext(ctx, q, labID, date)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotDisabled
	}
	return nil
}

// MapByDate returns the labs disabled on the date, keyed by lab ID, with
// the optional reason.
func (r *DisabledLabRepo) MapByDate(ctx context.Context, date string) (map[uint64]*string, error) {
	const q = `SELECT lab_id, reason FROM disabled_labs WHERE disabled_date = ?`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64]*string)
	for rows.Next() {
		var labID uint64
		var reason sql.NullString
		if err := rows.Scan(&labID, &reason); err != nil {
			return nil, err
		}
		if reason.Valid {
			s := reason.String
			out[labID] = &s
		} else {
			out[labID] = nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// IsDisabled reports whether the lab is closed on the date.
func (r *DisabledLabRepo) IsDisabled(ctx context.Context, labID uint64, date string) (bool, error) {
	const q = `SELECT COUNT(*) FROM disabled_labs WHERE lab_id = ? AND disabled_date = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, labID, date).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
