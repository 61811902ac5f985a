package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotUnavailable   = errors.New("requested time slot is not available")
)

// validTransitions is the guard table of the appointment state machine.
// Missing targets are invalid from everywhere; terminal states have no
// outgoing edges.
var validTransitions = map[string][]string{
	models.StatusConfirmed:  {models.StatusScheduled},
	models.StatusInProgress: {models.StatusConfirmed},
	models.StatusCompleted:  {models.StatusConfirmed, models.StatusInProgress},
	models.StatusCancelled:  {models.StatusScheduled, models.StatusConfirmed},
	models.StatusNoShow:     {models.StatusScheduled, models.StatusConfirmed},
}

func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[to] {
		if from == allowed {
			return true
		}
	}
	return false
}

// ApplyTransition mutates the appointment in memory after checking the
// guard table. An invalid transition errors out and leaves the appointment
// untouched.
func ApplyTransition(appt *models.Appointment, target string) error {
	if !CanTransition(appt.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}
	appt.Status = target
	return nil
}

// ApplyCancellation is the cancel edge of the state machine, recording who
// cancelled and why.
func ApplyCancellation(appt *models.Appointment, reason, actor string, now time.Time) error {
	if err := ApplyTransition(appt, models.StatusCancelled); err != nil {
		return err
	}
	appt.CancellationReason = reason
	appt.CancelledBy = actor
	appt.CancelledAt = &now
	return nil
}

// CanBeModified gates public self-service edits: only upcoming scheduled or
// confirmed appointments may be touched.
func CanBeModified(appt *models.Appointment, now time.Time) bool {
	if appt.Status != models.StatusScheduled && appt.Status != models.StatusConfirmed {
		return false
	}
	return startInstant(appt).After(now)
}

func startInstant(appt *models.Appointment) time.Time {
	start, err := time.Parse("15:04", appt.StartTime)
	if err != nil {
		return appt.Date
	}
	return time.Date(appt.Date.Year(), appt.Date.Month(), appt.Date.Day(),
		start.Hour(), start.Minute(), 0, 0, appt.Date.Location())
}
