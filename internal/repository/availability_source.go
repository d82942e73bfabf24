package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// AvailabilitySource loads the per-date snapshot the occupancy resolver
// works from. It implements occupancy.Source with read-only queries and
// holds no state besides the DB handle.
type AvailabilitySource struct {
	db *sql.DB
}

// NewAvailabilitySource returns an AvailabilitySource bound to the database.
func NewAvailabilitySource(db *sql.DB) *AvailabilitySource {
	return &AvailabilitySource{db: db}
}

// LabsWithSlots returns every lab together with its slots recurring on the
// given weekday. Labs without slots for that weekday are still returned,
// with no entry in the slot map.
func (s *AvailabilitySource) LabsWithSlots(ctx context.Context, dayOfWeek string) ([]model.Lab, map[uint64][]model.AvailabilitySlot, error) {
	const labQ = `SELECT id, name, capacity, equipment, created_at, updated_at FROM labs ORDER BY id`
	rows, err := s.db.QueryContext(ctx, labQ)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var labs []model.Lab
	for rows.Next() {
		var l model.Lab
		var eq sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &l.Capacity, &eq, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, nil, err
		}
		if l.Equipment, err = decodeEquipment(eq); err != nil {
			return nil, nil, err
		}
		labs = append(labs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	const slotQ = `SELECT id, lab_id, day_of_week, start_time, end_time
	               FROM availability_slots
	               WHERE day_of_week = ?
	               ORDER BY lab_id, start_time, id`
	srows, err := s.db.QueryContext(ctx, slotQ, dayOfWeek)
	if err != nil {
		return nil, nil, err
	}
	defer srows.Close()

	byLab := make(map[uint64][]model.AvailabilitySlot)
	for srows.Next() {
		var sl model.AvailabilitySlot
		if err := srows.Scan(&sl.ID, &sl.LabID, &sl.DayOfWeek, &sl.StartTime, &sl.EndTime); err != nil {
			return nil, nil, err
		}
		byLab[sl.LabID] = append(byLab[sl.LabID], sl)
	}
	if err := srows.Err(); err != nil {
		return nil, nil, err
	}
	return labs, byLab, nil
}

// BookingsByDate returns all bookings for the exact calendar date joined
// with requester name and email, ordered by id.
func (s *AvailabilitySource) BookingsByDate(ctx context.Context, date string) ([]model.BookingDetail, error) {
	const q = `SELECT b.id, b.college_id, b.lab_name, b.booking_date, b.start_time, b.end_time,
	                  b.status, b.created_at, b.updated_at,
	                  u.name, u.email
	           FROM bookings b
	           JOIN users u ON u.college_id = b.college_id
	           WHERE b.booking_date = ?
	           ORDER BY b.id`
	rows, err := s.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.BookingDetail
	for rows.Next() {
		var d model.BookingDetail
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&d.ID, &d.CollegeID, &d.LabName, &d.BookingDate, &d.StartTime, &d.EndTime,
			&d.Status, &d.CreatedAt, &updatedAt,
			&d.RequesterName, &d.RequesterEmail,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			d.UpdatedAt = &t
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DisabledLabs returns the labs disabled on the date keyed by lab ID.
func (s *AvailabilitySource) DisabledLabs(ctx context.Context, date string) (map[uint64]*string, error) {
	return NewDisabledLabRepo(s.db).MapByDate(ctx, date)
}

// AssignedLabIDs returns the IDs of labs assigned to a lab assistant.
func (s *AvailabilitySource) AssignedLabIDs(ctx context.Context, assistantCollegeID string) ([]uint64, error) {
	return NewAssignmentRepo(s.db).LabIDsByAssistant(ctx, assistantCollegeID)
}
