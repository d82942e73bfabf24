// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingApprovedEvent is published when an admin approves a booking.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingApprovedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	CollegeID      string `json:"college_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	LabName        string `json:"lab_name"`
	BookingDate    string `json:"booking_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	ApprovedBy     string `json:"approved_by"`
	ApprovedAt     string `json:"approved_at"`
}
