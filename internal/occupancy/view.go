package occupancy

import (
	"context"
	"time"
)

// Status badge values carried alongside the Active/Disabled status so the
// admin dashboard can render a traffic light without mapping strings.
const (
	statusActive   = "Active"
	statusDisabled = "Disabled"
	badgeActive    = "\U0001F7E2" // green circle
	badgeDisabled  = "\U0001F534" // red circle
)

// StudentLab is one lab in the student view: only the time ranges that are
// still free, no booking detail and no identities.
type StudentLab struct {
	LabID          uint64   `json:"lab_id"`
	LabName        string   `json:"lab_name"`
	AvailableSlots []string `json:"available_slots"`
}

// StudentView lists the labs a student can still book on the date.
type StudentView struct {
	Date          string       `json:"date"`
	Labs          []StudentLab `json:"labs"`
	TotalLabs     int          `json:"total_labs"`
	LabsWithSlots int          `json:"labs_with_slots"`
}

// AdminLab is one lab in the admin view, with full slot and booking detail
// and the disabled override carried through.
type AdminLab struct {
	LabID             uint64          `json:"lab_id"`
	LabName           string          `json:"lab_name"`
	Capacity          uint32          `json:"capacity"`
	Equipment         []string        `json:"equipment"`
	Status            string          `json:"status"`
	StatusBadge       string          `json:"status_badge"`
	Occupancy         LabOccupancy    `json:"occupancy"`
	AvailabilitySlots []SlotOccupancy `json:"availability_slots"`
	Bookings          []BookingInfo   `json:"bookings"`
	Disabled          bool            `json:"disabled"`
	DisabledReason    *string         `json:"disabled_reason"`
}

// AdminView is the unfiltered picture of every lab for the date.
type AdminView struct {
	Date      string     `json:"date"`
	DayOfWeek string     `json:"day_of_week"`
	TotalLabs int        `json:"total_labs"`
	Labs      []AdminLab `json:"labs"`
}

// AssistantLab is one assigned lab in the lab-assistant view: slot and
// booking detail for operational preparation, but no administrative fields.
type AssistantLab struct {
	LabID             uint64          `json:"lab_id"`
	LabName           string          `json:"lab_name"`
	Capacity          uint32          `json:"capacity"`
	Equipment         []string        `json:"equipment"`
	AvailabilitySlots []SlotOccupancy `json:"availability_slots"`
	Bookings          []BookingInfo   `json:"bookings"`
	BookedSlotsCount  int             `json:"booked_slots_count"`
	FreeSlotsCount    int             `json:"free_slots_count"`
}

// AssistantView lists the labs assigned to the requesting assistant.
type AssistantView struct {
	Date          string         `json:"date"`
	AssignedLabs  []AssistantLab `json:"assigned_labs"`
	TotalAssigned int            `json:"total_assigned"`
}

// ViewForRole is the single dispatch point over the role enumeration.  It
// returns the role-shaped view for the date; collegeID is only consulted
// for lab assistants, whose date defaults to today when empty.  An
// unhandled Role value would be a bug in ParseRole, so the default arm
// fails rather than guessing a visibility rule.
func (r *Resolver) ViewForRole(ctx context.Context, role Role, date, collegeID string) (interface{}, error) {
	switch role {
	case RoleStudent:
		return r.StudentView(ctx, date)
	case RoleAdmin:
		return r.AdminView(ctx, date)
	case RoleLabAssistant:
		return r.AssistantView(ctx, collegeID, date)
	default:
		return nil, ErrUnknownRole
	}
}

// StudentView includes a lab only when it is not disabled on the date and
// still has at least one free slot.  Disabled labs are excluded outright,
// even when slots would otherwise be free.
func (r *Resolver) StudentView(ctx context.Context, date string) (*StudentView, error) {
	snap, err := r.load(ctx, date)
	if err != nil {
		return nil, err
	}
	view := &StudentView{
		Date:      snap.date,
		Labs:      []StudentLab{},
		TotalLabs: len(snap.labs),
	}
	for _, lab := range snap.labs {
		if _, off := snap.disabled[lab.ID]; off {
			continue
		}
		res, err := computeLab(lab, snap.slots[lab.ID], snap.byLab[lab.Name])
		if err != nil {
			return nil, err
		}
		if len(res.freeSlots) == 0 {
			continue
		}
		view.Labs = append(view.Labs, StudentLab{
			LabID:          lab.ID,
			LabName:        lab.Name,
			AvailableSlots: res.freeSlots,
		})
	}
	view.LabsWithSlots = len(view.Labs)
	return view, nil
}

// AdminView includes every lab regardless of disabled status or occupancy,
// with full slot, booking and override detail.
func (r *Resolver) AdminView(ctx context.Context, date string) (*AdminView, error) {
	snap, err := r.load(ctx, date)
	if err != nil {
		return nil, err
	}
	view := &AdminView{
		Date:      snap.date,
		DayOfWeek: snap.dayOfWeek,
		TotalLabs: len(snap.labs),
		Labs:      []AdminLab{},
	}
	for _, lab := range snap.labs {
		res, err := computeLab(lab, snap.slots[lab.ID], snap.byLab[lab.Name])
		if err != nil {
			return nil, err
		}
		al := AdminLab{
			LabID:             lab.ID,
			LabName:           lab.Name,
			Capacity:          lab.Capacity,
			Equipment:         equipmentOrEmpty(lab.Equipment),
			Status:            statusActive,
			StatusBadge:       badgeActive,
			Occupancy:         res.occupancy,
			AvailabilitySlots: res.slots,
			Bookings:          res.bookings,
		}
		if reason, off := snap.disabled[lab.ID]; off {
			al.Status = statusDisabled
			al.StatusBadge = badgeDisabled
			al.Disabled = true
			al.DisabledReason = reason
		}
		view.Labs = append(view.Labs, al)
	}
	return view, nil
}

// AssistantView includes only the labs assigned to the assistant.  When
// date is empty it defaults to today (UTC), matching how assistants use
// the view to prepare the current day.  An assistant with no assignments
// gets a valid empty result, not an error.
func (r *Resolver) AssistantView(ctx context.Context, assistantCollegeID, date string) (*AssistantView, error) {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	snap, err := r.load(ctx, date)
	if err != nil {
		return nil, err
	}
	ids, err := r.src.AssignedLabIDs(ctx, assistantCollegeID)
	if err != nil {
		return nil, err
	}
	assigned := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		assigned[id] = true
	}
	view := &AssistantView{
		Date:         snap.date,
		AssignedLabs: []AssistantLab{},
	}
	for _, lab := range snap.labs {
		if !assigned[lab.ID] {
			continue
		}
		res, err := computeLab(lab, snap.slots[lab.ID], snap.byLab[lab.Name])
		if err != nil {
			return nil, err
		}
		view.AssignedLabs = append(view.AssignedLabs, AssistantLab{
			LabID:             lab.ID,
			LabName:           lab.Name,
			Capacity:          lab.Capacity,
			Equipment:         equipmentOrEmpty(lab.Equipment),
			AvailabilitySlots: res.slots,
			Bookings:          res.bookings,
			BookedSlotsCount:  res.occupancy.Booked,
			FreeSlotsCount:    res.occupancy.Free,
		})
	}
	view.TotalAssigned = len(view.AssignedLabs)
	return view, nil
}

// equipmentOrEmpty keeps equipment rendering as [] instead of null.
func equipmentOrEmpty(eq []string) []string {
	if eq == nil {
		return []string{}
	}
	return eq
}
