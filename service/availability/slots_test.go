package availability

import (
	"math/rand"
	"testing"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
)

func workday(start, end int, breaks ...Window) DaySchedule {
	return DaySchedule{IsWorking: true, Start: start, End: end, Breaks: breaks}
}

func TestAvailableSlots_FullDay(t *testing.T) {
	// 09:00-18:00 with a 12:00-13:00 break, 30-minute service, no buffer.
	day := workday(540, 1080, Window{Start: 720, End: 780})

	slots := AvailableSlots(day, nil, 30, Buffer{})
	if len(slots) == 0 {
		t.Fatal("expected slots, got none")
	}
	if slots[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "17:30" {
		t.Errorf("expected last slot 17:30, got %s", slots[len(slots)-1])
	}

	// Nothing may start inside [12:00, 12:45): a 30-minute booking there
	// would run into the break.
	for _, s := range slots {
		if s >= "11:45" && s < "13:00" {
			t.Errorf("slot %s intrudes on the 12:00-13:00 break", s)
		}
	}
	for _, want := range []string{"11:30", "13:00"} {
		if !contains(slots, want) {
			t.Errorf("expected slot %s around the break, missing", want)
		}
	}
}

func TestAvailableSlots_ExistingBooking(t *testing.T) {
	day := workday(540, 1080)
	booked := []Window{{Start: 600, End: 630}} // 10:00-10:30

	slots := AvailableSlots(day, booked, 30, Buffer{})
	for _, s := range []string{"09:45", "10:00", "10:15"} {
		if contains(slots, s) {
			t.Errorf("slot %s overlaps the 10:00-10:30 booking", s)
		}
	}
	if !contains(slots, "09:30") || !contains(slots, "10:30") {
		t.Error("expected slots immediately around the booking")
	}
}

func TestAvailableSlots_Buffer(t *testing.T) {
	day := workday(540, 1080)
	booked := []Window{{Start: 600, End: 630}} // 10:00-10:30

	// 10 minutes of cleanup after each service: 09:30 + 30 + 10 = 10:10,
	// which runs into the booking.
	slots := AvailableSlots(day, booked, 30, Buffer{After: 10})
	if contains(slots, "09:45") {
		t.Error("slot 09:45 should be blocked by its own after-buffer")
	}
	if contains(slots, "17:45") {
		t.Error("slot 17:45 plus buffer exceeds the working day")
	}
	if !contains(slots, "17:15") {
		t.Error("expected 17:15 to be the last slot that fits with buffer")
	}
}

func TestAvailableSlots_NonWorkingDay(t *testing.T) {
	day := DaySchedule{IsWorking: false, Start: 540, End: 1080}
	if slots := AvailableSlots(day, nil, 30, Buffer{}); slots != nil {
		t.Errorf("expected no slots on a non-working day, got %v", slots)
	}
}

func TestAvailableSlots_DurationExceedsDay(t *testing.T) {
	day := workday(540, 600)
	if slots := AvailableSlots(day, nil, 90, Buffer{}); slots != nil {
		t.Errorf("expected no slots when the service cannot fit, got %v", slots)
	}
}

// Every returned slot, expanded to its occupied span, must have empty
// intersection with every break and every existing booking.
func TestAvailableSlots_NeverOverlapsBusy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		day := workday(540, 1080, Window{Start: 720, End: 780})

		var booked []Window
		for j := 0; j < rng.Intn(6); j++ {
			start := 540 + rng.Intn(480)
			booked = append(booked, Window{Start: start, End: start + 15 + rng.Intn(90)})
		}

		duration := 15 * (1 + rng.Intn(6))
		buf := Buffer{Before: 5 * rng.Intn(3), After: 5 * rng.Intn(3)}

		busy := append(append([]Window{}, day.Breaks...), booked...)
		for _, s := range AvailableSlots(day, booked, duration, buf) {
			start, err := utils.ParseClock(s)
			if err != nil {
				t.Fatalf("unparseable slot %q: %v", s, err)
			}
			span := Window{Start: start - buf.Before, End: start + duration + buf.After}
			if overlapsAny(span, busy) {
				t.Fatalf("slot %s (span %v, duration %d, buffer %+v) overlaps busy set %v",
					s, span, duration, buf, busy)
			}
		}
	}
}

// Owner listings are always computed from the default week: the default
// record must carry the tenant scope and the 09:00-18:00 / 12:00-13:00
// shape that SlotsForOwner builds on.
func TestDefaultWeekGroundsOwnerSchedule(t *testing.T) {
	wh := models.DefaultWorkingHours(5, 5, 3)
	if wh.TenantID != 5 || wh.StaffID != 5 {
		t.Errorf("default record not tenant-scoped: tenant %d staff %d", wh.TenantID, wh.StaffID)
	}

	day, err := ScheduleFromWorkingHours(wh)
	if err != nil {
		t.Fatalf("default week must convert cleanly: %v", err)
	}

	slots := AvailableSlots(day, nil, 30, Buffer{})
	if len(slots) == 0 || slots[0] != "09:00" {
		t.Fatalf("expected owner slots to start at 09:00, got %v", slots)
	}
	for _, s := range slots {
		if s >= "11:45" && s < "13:00" {
			t.Errorf("owner slot %s intrudes on the default lunch break", s)
		}
	}
}

func TestAvailableSlots_Ordered(t *testing.T) {
	day := workday(540, 1080, Window{Start: 720, End: 780})
	slots := AvailableSlots(day, []Window{{Start: 900, End: 960}}, 30, Buffer{})
	for i := 1; i < len(slots); i++ {
		if slots[i-1] >= slots[i] {
			t.Fatalf("slots out of order: %s before %s", slots[i-1], slots[i])
		}
	}
}

func contains(slots []string, want string) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}
