package model

import "time"

// Lab represents a bookable laboratory as stored in the `labs` table.
// The equipment list is persisted as a JSON array in a TEXT column and
// unmarshalled by the repository layer.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique lab name (bookings reference labs by name).
//  Capacity  – number of students the room holds (≥1).
//  Equipment – names of instruments available in the lab.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Lab struct {
	ID        uint64    // labs.id
	Name      string    // labs.name
	Capacity  uint32    // labs.capacity
	Equipment []string  // labs.equipment (JSON array)
	CreatedAt time.Time // labs.created_at
	UpdatedAt time.Time // labs.updated_at
}

// AvailabilitySlot is a recurring weekly window during which a lab may be
// reserved.  Slots recur by weekday name and carry half-open [start, end)
// times at HH:MM resolution, same-day only.  Multiple slots per lab per
// day are allowed and are not assumed to be disjoint.
//
// Fields:
//  ID        – primary key identifier.
//  LabID     – lab the slot belongs to.
//  DayOfWeek – weekday name ("Monday" … "Sunday").
//  StartTime – inclusive start, "HH:MM" 24-hour.
//  EndTime   – exclusive end, "HH:MM" 24-hour.
type AvailabilitySlot struct {
	ID        uint64 // availability_slots.id
	LabID     uint64 // availability_slots.lab_id
	DayOfWeek string // availability_slots.day_of_week
	StartTime string // availability_slots.start_time
	EndTime   string // availability_slots.end_time
}

// DisabledLab marks a lab as unavailable on a specific calendar date,
// regardless of its defined slots.  Set and cleared by admins.
//
// Fields:
//  ID           – primary key identifier.
//  LabID        – lab being disabled.
//  DisabledDate – calendar date ("YYYY-MM-DD") the override applies to.
//  Reason       – optional human-readable reason, carried through to views.
//  CreatedAt    – timestamp of creation.
type DisabledLab struct {
	ID           uint64    // disabled_labs.id
	LabID        uint64    // disabled_labs.lab_id
	DisabledDate string    // disabled_labs.disabled_date
	Reason       *string   // disabled_labs.reason (nullable)
	CreatedAt    time.Time // disabled_labs.created_at
}

// AssistantAssignment links a lab assistant to a lab they prepare and
// supervise.  The relation is many-to-many: an assistant may cover several
// labs and a lab may have several assistants.
//
// Fields:
//  ID                 – primary key identifier.
//  LabID              – assigned lab.
//  AssistantCollegeID – college ID of the assistant.
//  AssignedAt         – timestamp of assignment.
type AssistantAssignment struct {
	ID                 uint64    // lab_assistant_assignments.id
	LabID              uint64    // lab_assistant_assignments.lab_id
	AssistantCollegeID string    // lab_assistant_assignments.assistant_college_id
	AssignedAt         time.Time // lab_assistant_assignments.assigned_at
}
