package models

// Appointment lifecycle states.
const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

// Booking source channels.
const (
	SourceOnline = "online"
	SourcePhone  = "phone"
	SourceWalkIn = "walk-in"
	SourceAdmin  = "admin"
)

// Actors recorded on modification and cancellation entries.
const (
	ActorClient = "client"
	ActorStaff  = "staff"
)
