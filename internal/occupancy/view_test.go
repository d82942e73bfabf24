package occupancy

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// fixtureSource builds a three-lab campus for the test date (a Friday):
//
//	lab 1 "Physics Lab"   two slots, one booked     -> partially free
//	lab 2 "Chemistry Lab" one slot, booked          -> all booked
//	lab 3 "Robotics Lab"  no Friday slots           -> no slots defined
//	lab 4 "Biology Lab"   one free slot, disabled   -> hidden from students
func fixtureSource() *memSource {
	reason := "Fumigation"
	return &memSource{
		labs: []model.Lab{
			{ID: 1, Name: "Physics Lab", Capacity: 10, Equipment: []string{"Microscopes"}},
			{ID: 2, Name: "Chemistry Lab", Capacity: 8, Equipment: []string{"Fume hoods"}},
			{ID: 3, Name: "Robotics Lab", Capacity: 6},
			{ID: 4, Name: "Biology Lab", Capacity: 12},
		},
		slots: []model.AvailabilitySlot{
			fridaySlot(1, 1, "09:00", "11:00"),
			fridaySlot(2, 1, "14:00", "16:00"),
			fridaySlot(3, 2, "10:00", "12:00"),
			fridaySlot(4, 4, "09:00", "11:00"),
			// Monday slot must never surface on a Friday date.
			{ID: 5, LabID: 3, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "11:00"},
		},
		bookings: []model.BookingDetail{
			booking(1, "Physics Lab", "09:30", "10:30"),
			booking(2, "Chemistry Lab", "10:00", "12:00"),
		},
		disabled: map[uint64]*string{4: &reason},
		assignments: map[string][]uint64{
			"A100": {1, 3},
			"A200": {2},
		},
	}
}

func TestStudentViewFiltersDisabledAndFullLabs(t *testing.T) {
	r := NewResolver(fixtureSource())
	view, err := r.StudentView(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, testDate, view.Date)
	assert.Equal(t, 4, view.TotalLabs)
	assert.Equal(t, 1, view.LabsWithSlots)

	// Chemistry is fully booked, Robotics has no Friday slots, Biology is
	// disabled: only Physics survives, with its free afternoon slot.
	require.Len(t, view.Labs, 1)
	assert.Equal(t, uint64(1), view.Labs[0].LabID)
	assert.Equal(t, "Physics Lab", view.Labs[0].LabName)
	assert.Equal(t, []string{"14:00-16:00"}, view.Labs[0].AvailableSlots)
}

func TestStudentViewEmptyCampus(t *testing.T) {
	r := NewResolver(&memSource{})
	view, err := r.StudentView(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TotalLabs)
	assert.NotNil(t, view.Labs) // renders as [], not null
	assert.Empty(t, view.Labs)
}

func TestAdminViewIncludesEverything(t *testing.T) {
	r := NewResolver(fixtureSource())
	view, err := r.AdminView(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, "Friday", view.DayOfWeek)
	assert.Equal(t, 4, view.TotalLabs)
	require.Len(t, view.Labs, 4)

	byID := make(map[uint64]AdminLab, len(view.Labs))
	for _, l := range view.Labs {
		byID[l.LabID] = l
	}

	physics := byID[1]
	assert.Equal(t, "1/2 free", physics.Occupancy.OccupancyLabel)
	assert.Equal(t, statusActive, physics.Status)
	assert.Equal(t, badgeActive, physics.StatusBadge)
	require.Len(t, physics.AvailabilitySlots, 2)
	assert.Equal(t, FullLabel, physics.AvailabilitySlots[0].OccupancyLabel)
	require.Len(t, physics.AvailabilitySlots[0].Bookings, 1)
	assert.Equal(t, "john@college.edu", physics.AvailabilitySlots[0].Bookings[0].Email)

	chemistry := byID[2]
	assert.Equal(t, AllBookedLabel, chemistry.Occupancy.OccupancyLabel)

	robotics := byID[3]
	assert.Equal(t, NoSlotsLabel, robotics.Occupancy.OccupancyLabel)
	assert.Empty(t, robotics.AvailabilitySlots)
	assert.NotNil(t, robotics.Equipment) // [] not null

	biology := byID[4]
	assert.True(t, biology.Disabled)
	assert.Equal(t, statusDisabled, biology.Status)
	assert.Equal(t, badgeDisabled, biology.StatusBadge)
	require.NotNil(t, biology.DisabledReason)
	assert.Equal(t, "Fumigation", *biology.DisabledReason)
	// Disabled labs still show their computed occupancy for the admin.
	assert.Equal(t, "1/1 free", biology.Occupancy.OccupancyLabel)
}

func TestAdminViewLabOrderIsStable(t *testing.T) {
	r := NewResolver(fixtureSource())
	view, err := r.AdminView(context.Background(), testDate)
	require.NoError(t, err)
	for i, l := range view.Labs {
		assert.Equal(t, uint64(i+1), l.LabID)
	}
}

func TestAssistantViewScopedToAssignments(t *testing.T) {
	r := NewResolver(fixtureSource())

	viewA, err := r.AssistantView(context.Background(), "A100", testDate)
	require.NoError(t, err)
	require.Len(t, viewA.AssignedLabs, 2)
	assert.Equal(t, 2, viewA.TotalAssigned)
	assert.Equal(t, uint64(1), viewA.AssignedLabs[0].LabID)
	assert.Equal(t, uint64(3), viewA.AssignedLabs[1].LabID)
	assert.Equal(t, 1, viewA.AssignedLabs[0].BookedSlotsCount)
	assert.Equal(t, 1, viewA.AssignedLabs[0].FreeSlotsCount)

	viewB, err := r.AssistantView(context.Background(), "A200", testDate)
	require.NoError(t, err)
	require.Len(t, viewB.AssignedLabs, 1)
	assert.Equal(t, uint64(2), viewB.AssignedLabs[0].LabID)
	// Assistants see requester identity on their labs.
	require.Len(t, viewB.AssignedLabs[0].Bookings, 1)
	assert.Equal(t, "John Doe", viewB.AssignedLabs[0].Bookings[0].Name)
}

func TestAssistantViewNoAssignments(t *testing.T) {
	r := NewResolver(fixtureSource())
	view, err := r.AssistantView(context.Background(), "A999", testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TotalAssigned)
	assert.NotNil(t, view.AssignedLabs)
	assert.Empty(t, view.AssignedLabs)
}

func TestAssistantViewDefaultsToToday(t *testing.T) {
	r := NewResolver(&memSource{})
	view, err := r.AssistantView(context.Background(), "A100", "")
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), view.Date)
}

func TestViewForRoleDispatch(t *testing.T) {
	r := NewResolver(fixtureSource())
	ctx := context.Background()

	v, err := r.ViewForRole(ctx, RoleStudent, testDate, "S001")
	require.NoError(t, err)
	assert.IsType(t, &StudentView{}, v)

	v, err = r.ViewForRole(ctx, RoleAdmin, testDate, "AD01")
	require.NoError(t, err)
	assert.IsType(t, &AdminView{}, v)

	v, err = r.ViewForRole(ctx, RoleLabAssistant, testDate, "A100")
	require.NoError(t, err)
	assert.IsType(t, &AssistantView{}, v)

	_, err = r.ViewForRole(ctx, Role(42), testDate, "S001")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestViewForRoleBadDate(t *testing.T) {
	r := NewResolver(fixtureSource())
	for _, role := range []Role{RoleStudent, RoleAdmin, RoleLabAssistant} {
		_, err := r.ViewForRole(context.Background(), role, "not-a-date", "A100")
		assert.ErrorIs(t, err, ErrBadDate, role.String())
	}
}

// Recomputing the same date twice must produce byte-identical JSON: the
// resolver holds no state and its iteration order is pinned.
func TestViewsAreDeterministic(t *testing.T) {
	r := NewResolver(fixtureSource())
	ctx := context.Background()

	for _, role := range []Role{RoleStudent, RoleAdmin, RoleLabAssistant} {
		v1, err := r.ViewForRole(ctx, role, testDate, "A100")
		require.NoError(t, err)
		v2, err := r.ViewForRole(ctx, role, testDate, "A100")
		require.NoError(t, err)

		j1, err := json.Marshal(v1)
		require.NoError(t, err)
		j2, err := json.Marshal(v2)
		require.NoError(t, err)
		assert.Equal(t, j1, j2, role.String())
	}
}
