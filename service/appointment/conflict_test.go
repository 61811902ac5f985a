package appointment

import (
	"math/rand"
	"testing"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
)

func appt(id uint, start, end string) models.Appointment {
	a := models.Appointment{
		Date:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
		Status:    models.StatusScheduled,
	}
	a.ID = id
	return a
}

func TestHasConflict_OverlappingRequest(t *testing.T) {
	// Staff X already has 10:00-10:30 booked on 2025-01-10.
	existing := []models.Appointment{appt(1, "10:00", "10:30")}

	if !HasConflict(existing, "10:15", "10:45", 0) {
		t.Error("10:15-10:45 should conflict with 10:00-10:30")
	}

	// The same request against a staff member with no bookings is free.
	if HasConflict(nil, "10:15", "10:45", 0) {
		t.Error("empty schedule should never conflict")
	}
}

func TestHasConflict_CoveringCases(t *testing.T) {
	existing := []models.Appointment{appt(1, "10:00", "11:00")}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"starts inside existing", "10:30", "11:30", true},
		{"ends inside existing", "09:30", "10:30", true},
		{"fully contains existing", "09:00", "12:00", true},
		{"fully inside existing", "10:15", "10:45", true},
		{"identical interval", "10:00", "11:00", true},
		{"ends exactly at existing start", "09:00", "10:00", false},
		{"starts exactly at existing end", "11:00", "12:00", false},
		{"well before", "08:00", "09:00", false},
		{"well after", "12:00", "13:00", false},
	}

	for _, tt := range tests {
		if got := HasConflict(existing, tt.start, tt.end, 0); got != tt.want {
			t.Errorf("%s: HasConflict(%s-%s) = %v, want %v", tt.name, tt.start, tt.end, got, tt.want)
		}
	}
}

// Unpadded but valid times must compare by clock value, not as text:
// "9:30" sorts after "10:00" lexicographically.
func TestHasConflict_UnpaddedTimes(t *testing.T) {
	existing := []models.Appointment{appt(1, "09:35", "09:50")}

	if !HasConflict(existing, "9:30", "10:05", 0) {
		t.Error("candidate 9:30-10:05 contains existing 09:35-09:50, must conflict")
	}
	if HasConflict(existing, "9:50", "10:05", 0) {
		t.Error("candidate 9:50-10:05 abuts existing 09:35-09:50, must be free")
	}

	unpadded := []models.Appointment{appt(2, "9:00", "9:45")}
	if !HasConflict(unpadded, "09:30", "10:00", 0) {
		t.Error("stored unpadded 9:00-9:45 must still conflict with 09:30-10:00")
	}
}

func TestHasConflict_MalformedTimesFailClosed(t *testing.T) {
	existing := []models.Appointment{appt(1, "10:00", "11:00")}

	if !HasConflict(existing, "not-a-time", "11:30", 0) {
		t.Error("a malformed candidate must never vouch for a free slot")
	}
}

func TestHasConflict_ExcludesOwnID(t *testing.T) {
	existing := []models.Appointment{appt(42, "10:00", "10:30")}

	// Rescheduling appointment 42 onto its own old interval is no conflict.
	if HasConflict(existing, "10:00", "10:30", 42) {
		t.Error("an appointment must not conflict with itself during reschedule")
	}
	if !HasConflict(existing, "10:00", "10:30", 7) {
		t.Error("excluding an unrelated id must not hide the conflict")
	}
}

func TestHasConflict_Deterministic(t *testing.T) {
	existing := []models.Appointment{
		appt(1, "09:00", "09:45"),
		appt(2, "11:00", "12:00"),
	}

	first := HasConflict(existing, "09:30", "10:00", 0)
	second := HasConflict(existing, "09:30", "10:00", 0)
	if first != second {
		t.Error("identical inputs must yield identical output")
	}
	if existing[0].StartTime != "09:00" || existing[1].EndTime != "12:00" {
		t.Error("HasConflict must not mutate its input")
	}
}

// Randomized sets: every synthetically introduced overlap must be flagged.
func TestHasConflict_FlagsEveryIntroducedOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 500; i++ {
		existingStart := 480 + 15*rng.Intn(32)
		existingEnd := existingStart + 15 + 15*rng.Intn(6)
		existing := []models.Appointment{
			appt(1, utils.FormatClock(existingStart), utils.FormatClock(existingEnd)),
		}

		// A candidate that starts strictly inside the existing interval.
		candStart := existingStart + rng.Intn(existingEnd-existingStart)
		candEnd := candStart + 15 + rng.Intn(60)
		if !HasConflict(existing, utils.FormatClock(candStart), utils.FormatClock(candEnd), 0) {
			t.Fatalf("missed overlap: existing %d-%d, candidate %d-%d",
				existingStart, existingEnd, candStart, candEnd)
		}

		// A candidate that abuts the existing interval must be free.
		if !HasConflict(existing, utils.FormatClock(existingEnd), utils.FormatClock(existingEnd+30), 0) {
			continue
		}
		t.Fatalf("false positive: candidate starting at existing end %d flagged", existingEnd)
	}
}
