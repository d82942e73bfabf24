package model

import "time"

// Booking status values.  A booking starts out pending and is moved to
// approved or rejected by an admin decision.
const (
	BookingPending  = "pending"
	BookingApproved = "approved"
	BookingRejected = "rejected"
)

// Booking records a dated reservation request for a lab.  The time range
// is half-open [StartTime, EndTime) at HH:MM resolution and is independent
// of any availability-slot boundary: it may span, partially overlap, or sit
// inside one or more slots.
//
// Fields:
//  ID          – primary key identifier.
//  CollegeID   – requester (references users.college_id).
//  LabName     – lab being booked (references labs.name).
//  BookingDate – calendar date ("YYYY-MM-DD").
//  StartTime   – inclusive start, "HH:MM" 24-hour.
//  EndTime     – exclusive end, "HH:MM" 24-hour.
//  Status      – pending, approved or rejected.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp (nullable).
type Booking struct {
	ID          uint64     // bookings.id
	CollegeID   string     // bookings.college_id
	LabName     string     // bookings.lab_name
	BookingDate string     // bookings.booking_date
	StartTime   string     // bookings.start_time
	EndTime     string     // bookings.end_time
	Status      string     // bookings.status
	CreatedAt   time.Time  // bookings.created_at
	UpdatedAt   *time.Time // bookings.updated_at (nullable)
}

// BookingDetail is a Booking joined with its requester's display fields,
// as loaded for the occupancy views (admins and lab assistants see who is
// coming, not just that a slot is taken).
type BookingDetail struct {
	Booking
	RequesterName  string // users.name
	RequesterEmail string // users.email
}
