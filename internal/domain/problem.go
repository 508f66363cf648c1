package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Problem struct {
	ID              uuid.UUID      `json:"id" db:"problem_id"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	Category        string         `json:"category" db:"category"`
	LocationAddress string         `json:"location_address" db:"location_address"`
	Latitude        *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64       `json:"longitude,omitempty" db:"longitude"`
	Images          pq.StringArray `json:"images" db:"images"`
	Severity        Severity       `json:"severity" db:"severity"`
	Status          ProblemStatus  `json:"status" db:"status"`
	Visibility      Visibility     `json:"visibility" db:"visibility"`
	ReportedBy      uuid.UUID      `json:"reported_by" db:"reported_by"`
	ReviewedBy      *uuid.UUID     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewFeedback  *string        `json:"review_feedback,omitempty" db:"review_feedback"`
	EventID         *uuid.UUID     `json:"event_id,omitempty" db:"event_id"`
	PointsAwarded   *int           `json:"points_awarded,omitempty" db:"points_awarded"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type ProblemStatus string

const (
	ProblemPending  ProblemStatus = "pending"
	ProblemApproved ProblemStatus = "approved"
	ProblemRejected ProblemStatus = "rejected"
	ProblemResolved ProblemStatus = "resolved"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// CanBeViewedBy applies the read-path visibility rule: elevated users and the
// reporter always see the problem, everyone else only once it is public and
// approved.
func (p *Problem) CanBeViewedBy(viewer *User) bool {
	if viewer != nil && (viewer.IsElevated() || viewer.ID == p.ReportedBy) {
		return true
	}
	return p.Visibility == VisibilityPublic && p.Status == ProblemApproved
}

type SubmitProblemInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Location    LocationInput `json:"location"`
	Images      []string      `json:"images,omitempty"`
	Severity    *Severity     `json:"severity,omitempty"`
}

type LocationInput struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Validate checks required fields and returns the first failure as a
// ValidationError.
func (in SubmitProblemInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return NewValidationError("title", "title is required")
	case strings.TrimSpace(in.Description) == "":
		return NewValidationError("description", "description is required")
	case strings.TrimSpace(in.Category) == "":
		return NewValidationError("category", "category is required")
	case strings.TrimSpace(in.Location.Address) == "":
		return NewValidationError("location.address", "location address is required")
	}
	if in.Severity != nil && !in.Severity.IsValid() {
		return NewValidationError("severity", "severity must be one of low, medium, high, critical")
	}
	return nil
}

type ApproveProblemInput struct {
	EventDate    *time.Time         `json:"event_date,omitempty"`
	EventDetails *EventDetailsInput `json:"event_details,omitempty"`
}

type EventDetailsInput struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
}

type RejectProblemInput struct {
	Feedback *string `json:"feedback,omitempty"`
}

type ProblemFilter struct {
	Status     *ProblemStatus
	Category   string
	ReportedBy *uuid.UUID
	// PublicOnly restricts results to approved public problems, optionally
	// OR-ed with problems reported by ReportedBy.
	PublicOnly bool
}

// ProblemReview is the write set of a pending → approved/rejected transition.
type ProblemReview struct {
	ProblemID     uuid.UUID
	Status        ProblemStatus
	Visibility    Visibility
	ReviewedBy    uuid.UUID
	ReviewedAt    time.Time
	Feedback      *string
	EventID       *uuid.UUID
	PointsAwarded *int
}

// ReviewResult is what ProblemWorkflow returns after an approval, including
// the reporter's updated totals.
type ReviewResult struct {
	Problem   *Problem    `json:"problem"`
	Event     *Event      `json:"event,omitempty"`
	Award     int         `json:"points_awarded"`
	NewBadges []string    `json:"new_badges"`
	Reporter  *UserTotals `json:"reporter,omitempty"`
}

type UserTotals struct {
	RewardPoints     int      `json:"reward_points"`
	ReportingScore   int      `json:"reporting_score"`
	ProblemsReported int      `json:"problems_reported"`
	ProblemsApproved int      `json:"problems_approved"`
	Badges           []string `json:"badges"`
}

func TotalsOf(u *User) *UserTotals {
	if u == nil {
		return nil
	}
	return &UserTotals{
		RewardPoints:     u.RewardPoints,
		ReportingScore:   u.ReportingScore,
		ProblemsReported: u.ProblemsReported,
		ProblemsApproved: u.ProblemsApproved,
		Badges:           append([]string(nil), u.Badges...),
	}
}

type SubmitResult struct {
	Problem   *Problem    `json:"problem"`
	NewBadges []string    `json:"new_badges"`
	Reporter  *UserTotals `json:"reporter,omitempty"`
}
