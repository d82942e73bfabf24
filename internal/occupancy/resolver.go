package occupancy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// SlotCapacity is the number of bookings an availability slot can absorb
// before it counts as FULL.  The current booking model treats each slot as
// a single reservable resource; a future per-slot capacity only needs to
// change how this value is sourced, not the overlap matching below.
const SlotCapacity = 1

// Labels used by the aggregation.  NoSlotsLabel is deliberately distinct
// from AllBookedLabel: a lab with no slots defined for the weekday has
// nothing to book, which is not the same as everything being taken.
const (
	FullLabel      = "FULL"
	AllBookedLabel = "ALL BOOKED"
	NoSlotsLabel   = "No slots defined"
)

// Source supplies the resolver with a consistent snapshot of labs, slots,
// bookings and administrative overrides for one request.  It is implemented
// by the repository layer; tests provide an in-memory implementation.
type Source interface {
	// LabsWithSlots returns every lab together with its availability slots
	// recurring on the given weekday.  Labs without slots for that weekday
	// are still returned, with an empty slot list.
	LabsWithSlots(ctx context.Context, dayOfWeek string) ([]model.Lab, map[uint64][]model.AvailabilitySlot, error)
	// BookingsByDate returns all bookings for the exact calendar date,
	// joined with requester name and email.
	BookingsByDate(ctx context.Context, date string) ([]model.BookingDetail, error)
	// DisabledLabs returns the labs disabled on the date, keyed by lab ID,
	// with the optional reason.
	DisabledLabs(ctx context.Context, date string) (map[uint64]*string, error)
	// AssignedLabIDs returns the IDs of labs assigned to a lab assistant.
	AssignedLabIDs(ctx context.Context, assistantCollegeID string) ([]uint64, error)
}

// Resolver computes occupancy views.  It holds no state besides the
// Source, so a single Resolver is safe to share across concurrent
// requests.
type Resolver struct {
	src Source
}

// NewResolver returns a Resolver reading from the given source.
func NewResolver(src Source) *Resolver { return &Resolver{src: src} }

// BookingInfo is a booking as exposed in admin and assistant views.
type BookingInfo struct {
	ID          uint64 `json:"id"`
	RequesterID string `json:"requester_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// SlotOccupancy is one availability slot with its overlap-derived load.
type SlotOccupancy struct {
	Time           string        `json:"time"` // "HH:MM-HH:MM"
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	BookedCount    int           `json:"booked_count"`
	Available      int           `json:"available"`
	OccupancyLabel string        `json:"occupancy_label"`
	Bookings       []BookingInfo `json:"bookings"`
}

// LabOccupancy summarizes a lab's slots for one date.  Booked counts FULL
// slots, not bookings: a slot overlapped by any booking is taken.
type LabOccupancy struct {
	TotalSlots     int    `json:"total_slots"`
	Booked         int    `json:"booked"`
	Free           int    `json:"free"`
	OccupancyLabel string `json:"occupancy_label"`
}

// labResult is the full per-lab computation shared by all role views.
type labResult struct {
	lab       model.Lab
	slots     []SlotOccupancy
	bookings  []BookingInfo // deduped by booking ID, order of first overlap/appearance
	occupancy LabOccupancy
	freeSlots []string // "HH:MM-HH:MM" ranges with no overlapping booking
}

// computeLab matches every booking of the lab against every slot using the
// half-open overlap rule and aggregates the counts and labels.  Bookings
// that overlap no slot still appear in the lab's flat booking list; a
// booking spanning several slots increments each slot's count but is listed
// once, keyed by its ID.
func computeLab(lab model.Lab, slots []model.AvailabilitySlot, bookings []model.BookingDetail) (labResult, error) {
	res := labResult{
		lab:       lab,
		slots:     make([]SlotOccupancy, 0, len(slots)),
		bookings:  make([]BookingInfo, 0, len(bookings)),
		freeSlots: []string{},
	}

	// Parse booking intervals once; reject corrupt time data up front.
	type parsedBooking struct {
		iv   interval
		info BookingInfo
	}
	parsed := make([]parsedBooking, 0, len(bookings))
	for _, b := range bookings {
		iv, err := parseInterval(b.StartTime, b.EndTime)
		if err != nil {
			return labResult{}, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		parsed = append(parsed, parsedBooking{iv: iv, info: bookingInfo(b)})
		res.bookings = append(res.bookings, bookingInfo(b))
	}

	// Deterministic slot order keeps repeated calls byte-identical.
	ordered := make([]model.AvailabilitySlot, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartTime != ordered[j].StartTime {
			return ordered[i].StartTime < ordered[j].StartTime
		}
		return ordered[i].ID < ordered[j].ID
	})

	fullSlots := 0
	for _, s := range ordered {
		siv, err := parseInterval(s.StartTime, s.EndTime)
		if err != nil {
			return labResult{}, fmt.Errorf("slot %d: %w", s.ID, err)
		}
		so := SlotOccupancy{
			Time:      s.StartTime + "-" + s.EndTime,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Bookings:  []BookingInfo{},
		}
		for _, pb := range parsed {
			if overlaps(siv, pb.iv) {
				so.BookedCount++
				so.Bookings = append(so.Bookings, pb.info)
			}
		}
		so.Available = SlotCapacity - so.BookedCount
		if so.Available < 0 {
			so.Available = 0
		}
		if so.BookedCount >= SlotCapacity {
			so.OccupancyLabel = FullLabel
			fullSlots++
		} else {
			so.OccupancyLabel = fmt.Sprintf("%d/%d free", so.Available, SlotCapacity)
			res.freeSlots = append(res.freeSlots, so.Time)
		}
		res.slots = append(res.slots, so)
	}

	total := len(ordered)
	free := total - fullSlots
	res.occupancy = LabOccupancy{
		TotalSlots: total,
		Booked:     fullSlots,
		Free:       free,
	}
	switch {
	case total == 0:
		res.occupancy.OccupancyLabel = NoSlotsLabel
	case free > 0:
		res.occupancy.OccupancyLabel = fmt.Sprintf("%d/%d free", free, total)
	default:
		res.occupancy.OccupancyLabel = AllBookedLabel
	}
	return res, nil
}

// bookingInfo projects a BookingDetail onto its view shape.
func bookingInfo(b model.BookingDetail) BookingInfo {
	return BookingInfo{
		ID:          b.ID,
		RequesterID: b.CollegeID,
		Name:        b.RequesterName,
		Email:       b.RequesterEmail,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// snapshot is the per-request input set all three views are computed from.
type snapshot struct {
	date      string
	dayOfWeek string
	labs      []model.Lab
	slots     map[uint64][]model.AvailabilitySlot
	byLab     map[string][]model.BookingDetail // bookings grouped by lab name
	disabled  map[uint64]*string
}

// load fetches and groups everything the views need for one date.  Labs
// are sorted by ID so output order is stable across identical requests.
func (r *Resolver) load(ctx context.Context, date string) (*snapshot, error) {
	day, err := DayOfWeek(date)
	if err != nil {
		return nil, err
	}
	labs, slots, err := r.src.LabsWithSlots(ctx, day)
	if err != nil {
		return nil, err
	}
	sort.Slice(labs, func(i, j int) bool { return labs[i].ID < labs[j].ID })

	bookings, err := r.src.BookingsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	byLab := make(map[string][]model.BookingDetail)
	// Group by lab, deduping by booking ID.  IDs are unique in storage,
	// but the grouping must not rely on row multiplicity of the query.
	seen := make(map[uint64]bool, len(bookings))
	for _, b := range bookings {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		byLab[b.LabName] = append(byLab[b.LabName], b)
	}
	for name := range byLab {
		bs := byLab[name]
		sort.Slice(bs, func(i, j int) bool { return bs[i].ID < bs[j].ID })
	}

	disabled, err := r.src.DisabledLabs(ctx, date)
	if err != nil {
		return nil, err
	}
	return &snapshot{
		date:      date,
		dayOfWeek: day,
		labs:      labs,
		slots:     slots,
		byLab:     byLab,
		disabled:  disabled,
	}, nil
}
