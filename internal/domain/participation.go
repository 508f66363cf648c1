package domain

import (
	"time"

	"github.com/google/uuid"
)

type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationApproved  ParticipationStatus = "approved"
	ParticipationRejected  ParticipationStatus = "rejected"
	ParticipationAttended  ParticipationStatus = "attended"
	ParticipationCompleted ParticipationStatus = "completed"
)

type Participation struct {
	ID             uuid.UUID           `json:"id" db:"participation_id"`
	EventID        uuid.UUID           `json:"event_id" db:"event_id"`
	StudentID      uuid.UUID           `json:"student_id" db:"student_id"`
	Status         ParticipationStatus `json:"status" db:"status"`
	Attended       bool                `json:"attended" db:"attended"`
	VolunteerHours int                 `json:"volunteer_hours" db:"volunteer_hours"`
	ReviewedBy     *uuid.UUID          `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt     *time.Time          `json:"reviewed_at,omitempty" db:"reviewed_at"`
	RejectReason   *string             `json:"reject_reason,omitempty" db:"reject_reason"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

type ReviewParticipationInput struct {
	Reason *string `json:"reason,omitempty"`
}

type MarkAttendanceInput struct {
	Attended bool `json:"attended"`
	Hours    *int `json:"hours,omitempty"`
}

// AttendanceChange is the write set of an attendance toggle. HoursDelta is
// applied to the student's total volunteer hours, floored at zero.
type AttendanceChange struct {
	ParticipationID uuid.UUID
	FromStatus      ParticipationStatus
	ToStatus        ParticipationStatus
	Attended        bool
	Hours           int
	StudentID       uuid.UUID
	HoursDelta      int
}

type AttendanceResult struct {
	Participation       *Participation `json:"participation"`
	TotalVolunteerHours int            `json:"total_volunteer_hours"`
}
