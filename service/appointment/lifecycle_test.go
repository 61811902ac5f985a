package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
)

func TestApplyTransition_HappyPath(t *testing.T) {
	a := models.Appointment{Status: models.StatusScheduled}

	for _, target := range []string{models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted} {
		if err := ApplyTransition(&a, target); err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if a.Status != target {
			t.Fatalf("status = %s, want %s", a.Status, target)
		}
	}
}

func TestApplyTransition_GuardsInvalidEdges(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{models.StatusCancelled, models.StatusConfirmed},
		{models.StatusCompleted, models.StatusConfirmed},
		{models.StatusScheduled, models.StatusInProgress},
		{models.StatusScheduled, models.StatusCompleted},
		{models.StatusNoShow, models.StatusScheduled},
		{models.StatusInProgress, models.StatusCancelled},
		{models.StatusInProgress, models.StatusNoShow},
		{models.StatusScheduled, "something_else"},
	}

	for _, tt := range tests {
		a := models.Appointment{Status: tt.from}
		err := ApplyTransition(&a, tt.to)
		if err == nil {
			t.Errorf("%s -> %s should be rejected", tt.from, tt.to)
			continue
		}
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", tt.from, tt.to, err)
		}
		if a.Status != tt.from {
			t.Errorf("%s -> %s: status mutated to %s on failed transition", tt.from, tt.to, a.Status)
		}
	}
}

func TestApplyCancellation_RecordsDetails(t *testing.T) {
	a := models.Appointment{Status: models.StatusConfirmed}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := ApplyCancellation(&a, "client moved away", models.ActorClient, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != models.StatusCancelled {
		t.Errorf("status = %s, want cancelled", a.Status)
	}
	if a.CancellationReason != "client moved away" || a.CancelledBy != models.ActorClient {
		t.Error("cancellation details not recorded")
	}
	if a.CancelledAt == nil || !a.CancelledAt.Equal(now) {
		t.Error("cancellation timestamp not recorded")
	}
}

func TestApplyCancellation_RejectedFromTerminalState(t *testing.T) {
	a := models.Appointment{Status: models.StatusCancelled, CancellationReason: "original"}

	err := ApplyCancellation(&a, "again", models.ActorStaff, time.Now())
	if err == nil {
		t.Fatal("cancelling a cancelled appointment should fail")
	}
	if a.CancellationReason != "original" {
		t.Error("failed cancellation mutated the record")
	}
}

func TestCanBeModified(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	future := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		date   time.Time
		start  string
		want   bool
	}{
		{"upcoming scheduled", models.StatusScheduled, future, "10:00", true},
		{"upcoming confirmed", models.StatusConfirmed, future, "10:00", true},
		{"completed", models.StatusCompleted, future, "10:00", false},
		{"cancelled", models.StatusCancelled, future, "10:00", false},
		{"no-show", models.StatusNoShow, future, "10:00", false},
		{"in progress", models.StatusInProgress, future, "10:00", false},
		{"already started today", models.StatusScheduled, now.Truncate(24 * time.Hour), "11:00", false},
		{"later today", models.StatusScheduled, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "15:30", true},
		{"past date", models.StatusConfirmed, past, "10:00", false},
	}

	for _, tt := range tests {
		a := models.Appointment{Status: tt.status, Date: tt.date, StartTime: tt.start}
		if got := CanBeModified(&a, now); got != tt.want {
			t.Errorf("%s: CanBeModified = %v, want %v", tt.name, got, tt.want)
		}
	}
}
