package appointment

import (
	"testing"
	"time"
)

func TestSlotLockKey(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	if slotLockKey(3, 7, date) != slotLockKey(3, 7, date) {
		t.Error("same tenant/staff/date must derive the same lock key")
	}

	base := slotLockKey(3, 7, date)
	if slotLockKey(3, 8, date) == base {
		t.Error("different staff must derive a different lock key")
	}
	if slotLockKey(4, 7, date) == base {
		t.Error("different tenant must derive a different lock key")
	}
	if slotLockKey(3, 7, date.AddDate(0, 0, 1)) == base {
		t.Error("different date must derive a different lock key")
	}

	// Only the calendar day enters the key: two requests for the same day
	// must serialise regardless of wall-clock components.
	later := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	if slotLockKey(3, 7, later) != base {
		t.Error("time-of-day components must not change the lock key")
	}
}
