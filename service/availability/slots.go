package availability

import (
	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
)

// SlotStep is the fixed increment between candidate start times.
const SlotStep = 15

// Window is a half-open [Start, End) interval in minutes since midnight.
type Window struct {
	Start int
	End   int
}

type Buffer struct {
	Before int
	After  int
}

// DaySchedule is one staff member's working day in minutes since midnight.
type DaySchedule struct {
	IsWorking bool
	Start     int
	End       int
	Breaks    []Window
}

// AvailableSlots returns the ordered "HH:MM" start times at which a service
// of the given duration fits into the day. A candidate occupies
// [start-buf.Before, start+duration+buf.After) and is rejected when that
// span touches a break or an existing booking. Existing bookings enter as
// their raw spans; the candidate's own buffer is what extends the
// comparison.
func AvailableSlots(day DaySchedule, booked []Window, duration int, buf Buffer) []string {
	if !day.IsWorking || duration <= 0 {
		return nil
	}
	if day.Start+duration+buf.After > day.End {
		return nil
	}

	var slots []string
	for t := day.Start; t+duration+buf.After <= day.End; t += SlotStep {
		span := Window{Start: t - buf.Before, End: t + duration + buf.After}
		if overlapsAny(span, day.Breaks) || overlapsAny(span, booked) {
			continue
		}
		slots = append(slots, utils.FormatClock(t))
	}
	return slots
}

func overlapsAny(candidate Window, busy []Window) bool {
	for _, b := range busy {
		// Half-open overlap: [a.Start,a.End) meets [b.Start,b.End) iff
		// a.Start < b.End && b.Start < a.End.
		if candidate.Start < b.End && b.Start < candidate.End {
			return true
		}
	}
	return false
}

// ScheduleFromWorkingHours converts a stored working-hours record into
// minute arithmetic.
func ScheduleFromWorkingHours(wh models.WorkingHours) (DaySchedule, error) {
	start, err := utils.ParseClock(wh.StartTime)
	if err != nil {
		return DaySchedule{}, err
	}
	end, err := utils.ParseClock(wh.EndTime)
	if err != nil {
		return DaySchedule{}, err
	}

	day := DaySchedule{IsWorking: wh.IsWorking, Start: start, End: end}
	for _, b := range wh.Breaks {
		bs, err := utils.ParseClock(b.StartTime)
		if err != nil {
			return DaySchedule{}, err
		}
		be, err := utils.ParseClock(b.EndTime)
		if err != nil {
			return DaySchedule{}, err
		}
		day.Breaks = append(day.Breaks, Window{Start: bs, End: be})
	}
	return day, nil
}

// BookedWindows converts active appointments into their raw occupied spans.
func BookedWindows(appointments []models.Appointment) ([]Window, error) {
	var windows []Window
	for _, appt := range appointments {
		start, err := utils.ParseClock(appt.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := utils.ParseClock(appt.EndTime)
		if err != nil {
			return nil, err
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows, nil
}
