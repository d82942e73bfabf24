package occupancy

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"9:30", 0, false},
		{"09:60", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.minutes, got, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrBadClock, tc.in)
		}
	}
}

func TestParseIntervalRejectsInverted(t *testing.T) {
	_, err := parseInterval("14:00", "12:00")
	assert.ErrorIs(t, err, ErrBadClock)

	// Zero-length is tolerated; the overlap rule makes it match nothing.
	iv, err := parseInterval("10:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, iv.start, iv.end)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d.Format("2006-01-02"))

	for _, bad := range []string{"14-03-2025", "2025-13-01", "2025-02-30", "tomorrow", ""} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrBadDate, bad)
	}
}

func TestDayOfWeek(t *testing.T) {
	day, err := DayOfWeek("2025-03-14") // a Friday
	require.NoError(t, err)
	assert.Equal(t, "Friday", day)
}

func TestOverlapBoundaries(t *testing.T) {
	slot := interval{start: 9 * 60, end: 11 * 60} // 09:00-11:00
	cases := []struct {
		name    string
		booking interval
		want    bool
	}{
		{"partial overlap right", interval{10 * 60, 12 * 60}, true},
		{"partial overlap left", interval{8 * 60, 10 * 60}, true},
		{"contained in slot", interval{9*60 + 30, 10*60 + 30}, true},
		{"contains slot", interval{8 * 60, 12 * 60}, true},
		{"identical bounds", interval{9 * 60, 11 * 60}, true},
		{"touches slot end", interval{11 * 60, 13 * 60}, false},
		{"touches slot start", interval{7 * 60, 9 * 60}, false},
		{"fully before", interval{6 * 60, 8 * 60}, false},
		{"fully after", interval{12 * 60, 14 * 60}, false},
		{"zero-length inside", interval{10 * 60, 10 * 60}, false},
		{"zero-length at start", interval{9 * 60, 9 * 60}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, overlaps(slot, tc.booking))
		})
	}
}

// bruteOverlap checks intersection minute by minute.  It is the oracle the
// closed-form rule is verified against.
func bruteOverlap(a, b interval) bool {
	for m := 0; m < 24*60; m++ {
		if m >= a.start && m < a.end && m >= b.start && m < b.end {
			return true
		}
	}
	return false
}

func TestOverlapMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		a := randomInterval(rng)
		b := randomInterval(rng)
		want := bruteOverlap(a, b)
		got := overlaps(a, b)
		require.Equal(t, want, got,
			fmt.Sprintf("slot [%d,%d) booking [%d,%d)", a.start, a.end, b.start, b.end))
	}
}

func randomInterval(rng *rand.Rand) interval {
	start := rng.Intn(24 * 60)
	// Allow zero-length intervals so the degenerate case is exercised too.
	end := start + rng.Intn(24*60-start+1)
	return interval{start: start, end: end}
}
