package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeCleanup          EventType = "cleanup"
	EventTypeMaintenance      EventType = "maintenance"
	EventTypeAwareness        EventType = "awareness"
	EventTypeHealthCamp       EventType = "health_camp"
	EventTypeTutoring         EventType = "tutoring"
	EventTypeCommunityService EventType = "community_service"
	EventTypeOther            EventType = "other"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventTypeCleanup, EventTypeMaintenance, EventTypeAwareness, EventTypeHealthCamp,
		EventTypeTutoring, EventTypeCommunityService, EventTypeOther:
		return true
	}
	return false
}

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID                   uuid.UUID   `json:"id" db:"event_id"`
	Title                string      `json:"title" db:"title"`
	Description          string      `json:"description" db:"description"`
	Type                 EventType   `json:"type" db:"type"`
	Location             string      `json:"location" db:"location"`
	StartAt              time.Time   `json:"start_at" db:"start_at"`
	EndAt                time.Time   `json:"end_at" db:"end_at"`
	RegistrationDeadline time.Time   `json:"registration_deadline" db:"registration_deadline"`
	MaxParticipants      int         `json:"max_participants" db:"max_participants"`
	Status               EventStatus `json:"status" db:"status"`
	ProblemID            *uuid.UUID  `json:"problem_id,omitempty" db:"problem_id"`
	IsProblemDerived     bool        `json:"is_problem_derived" db:"is_problem_derived"`
	CreatedBy            uuid.UUID   `json:"created_by" db:"created_by"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" db:"updated_at"`
}

// DurationHours is the event length in whole hours, never less than one.
func (e *Event) DurationHours() int {
	hours := int(e.EndAt.Sub(e.StartAt) / time.Hour)
	if hours < 1 {
		return 1
	}
	return hours
}
