package occupancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// memSource is an in-memory Source for tests.  It mimics the repository
// layer: labs filtered to the weekday's slots, bookings filtered by date.
type memSource struct {
	labs        []model.Lab
	slots       []model.AvailabilitySlot
	bookings    []model.BookingDetail
	disabled    map[uint64]*string
	assignments map[string][]uint64
}

func (m *memSource) LabsWithSlots(_ context.Context, dayOfWeek string) ([]model.Lab, map[uint64][]model.AvailabilitySlot, error) {
	byLab := make(map[uint64][]model.AvailabilitySlot)
	for _, s := range m.slots {
		if s.DayOfWeek == dayOfWeek {
			byLab[s.LabID] = append(byLab[s.LabID], s)
		}
	}
	return m.labs, byLab, nil
}

func (m *memSource) BookingsByDate(_ context.Context, date string) ([]model.BookingDetail, error) {
	var out []model.BookingDetail
	for _, b := range m.bookings {
		if b.BookingDate == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memSource) DisabledLabs(_ context.Context, _ string) (map[uint64]*string, error) {
	if m.disabled == nil {
		return map[uint64]*string{}, nil
	}
	return m.disabled, nil
}

func (m *memSource) AssignedLabIDs(_ context.Context, assistantCollegeID string) ([]uint64, error) {
	return m.assignments[assistantCollegeID], nil
}

// testDate is a Friday; slot fixtures below recur on Friday.
const testDate = "2025-03-14"

func booking(id uint64, lab, start, end string) model.BookingDetail {
	return model.BookingDetail{
		Booking: model.Booking{
			ID:          id,
			CollegeID:   "S001",
			LabName:     lab,
			BookingDate: testDate,
			StartTime:   start,
			EndTime:     end,
			Status:      model.BookingApproved,
			CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		RequesterName:  "John Doe",
		RequesterEmail: "john@college.edu",
	}
}

func physicsLab() model.Lab {
	return model.Lab{ID: 1, Name: "Physics Lab", Capacity: 10, Equipment: []string{"Microscopes"}}
}

func fridaySlot(id uint64, labID uint64, start, end string) model.AvailabilitySlot {
	return model.AvailabilitySlot{ID: id, LabID: labID, DayOfWeek: "Friday", StartTime: start, EndTime: end}
}

func TestComputeLabPartialOverlapCountsSlot(t *testing.T) {
	// Historical regression: a booking 10:00-12:00 overlapping a slot
	// 09:00-11:00 must count, not only exact (start,end) matches.
	lab := physicsLab()
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{fridaySlot(1, 1, "09:00", "11:00")},
		[]model.BookingDetail{booking(7, lab.Name, "10:00", "12:00")})
	require.NoError(t, err)
	require.Len(t, res.slots, 1)
	assert.Equal(t, 1, res.slots[0].BookedCount)
	assert.Equal(t, FullLabel, res.slots[0].OccupancyLabel)
	assert.Equal(t, 0, res.slots[0].Available)
}

func TestComputeLabBoundaryDoesNotOverlap(t *testing.T) {
	lab := physicsLab()
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{fridaySlot(1, 1, "09:00", "11:00")},
		[]model.BookingDetail{booking(7, lab.Name, "11:00", "13:00")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.slots[0].BookedCount)
	assert.Equal(t, "1/1 free", res.slots[0].OccupancyLabel)
	assert.Equal(t, 1, res.slots[0].Available)
	// The booking is still part of the lab's flat list.
	assert.Len(t, res.bookings, 1)
}

func TestComputeLabMultiSlotSpanning(t *testing.T) {
	lab := physicsLab()
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{
			fridaySlot(1, 1, "09:00", "10:00"),
			fridaySlot(2, 1, "10:00", "11:00"),
		},
		[]model.BookingDetail{booking(7, lab.Name, "09:00", "11:00")})
	require.NoError(t, err)
	require.Len(t, res.slots, 2)
	for _, so := range res.slots {
		assert.Equal(t, 1, so.BookedCount, so.Time)
		assert.Equal(t, FullLabel, so.OccupancyLabel, so.Time)
	}
	// Counted once per slot, listed once per lab.
	assert.Len(t, res.bookings, 1)
	assert.Equal(t, LabOccupancy{TotalSlots: 2, Booked: 2, Free: 0, OccupancyLabel: AllBookedLabel}, res.occupancy)
}

func TestComputeLabAggregateLabels(t *testing.T) {
	lab := physicsLab()
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{
			fridaySlot(1, 1, "09:00", "11:00"),
			fridaySlot(2, 1, "14:00", "16:00"),
		},
		[]model.BookingDetail{booking(7, lab.Name, "09:00", "11:00")})
	require.NoError(t, err)
	assert.Equal(t, LabOccupancy{TotalSlots: 2, Booked: 1, Free: 1, OccupancyLabel: "1/2 free"}, res.occupancy)
	assert.Equal(t, []string{"14:00-16:00"}, res.freeSlots)
}

func TestComputeLabZeroSlots(t *testing.T) {
	// A lab with no slots for the weekday must be distinguishable from a
	// fully booked one.
	res, err := computeLab(physicsLab(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.occupancy.TotalSlots)
	assert.Equal(t, NoSlotsLabel, res.occupancy.OccupancyLabel)
	assert.NotEqual(t, AllBookedLabel, res.occupancy.OccupancyLabel)
}

func TestComputeLabBookingOutsideAllSlots(t *testing.T) {
	lab := physicsLab()
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{fridaySlot(1, 1, "09:00", "11:00")},
		[]model.BookingDetail{booking(7, lab.Name, "18:00", "20:00")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.slots[0].BookedCount)
	assert.Len(t, res.bookings, 1) // raw list keeps it
}

func TestComputeLabZeroLengthBookingNeverOverlaps(t *testing.T) {
	lab := physicsLab()
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{fridaySlot(1, 1, "09:00", "11:00")},
		[]model.BookingDetail{booking(7, lab.Name, "10:00", "10:00")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.slots[0].BookedCount)
}

func TestComputeLabRejectsInvertedBookingTimes(t *testing.T) {
	lab := physicsLab()
	_, err := computeLab(lab,
		[]model.AvailabilitySlot{fridaySlot(1, 1, "09:00", "11:00")},
		[]model.BookingDetail{booking(7, lab.Name, "14:00", "12:00")})
	assert.ErrorIs(t, err, ErrBadClock)
}

func TestComputeLabDedupesByBookingID(t *testing.T) {
	// Two distinct bookings sharing every displayed field must both be
	// listed: dedup is by identity, not structural equality.
	lab := physicsLab()
	b1 := booking(7, lab.Name, "09:00", "11:00")
	b2 := booking(8, lab.Name, "09:00", "11:00")
	res, err := computeLab(lab,
		[]model.AvailabilitySlot{fridaySlot(1, 1, "09:00", "11:00")},
		[]model.BookingDetail{b1, b2})
	require.NoError(t, err)
	assert.Len(t, res.bookings, 2)
	assert.Equal(t, 2, res.slots[0].BookedCount)
}
