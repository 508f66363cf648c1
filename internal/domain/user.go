package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID                  uuid.UUID      `json:"id" db:"user_id"`
	Email               string         `json:"email" db:"email"`
	PasswordHash        string         `json:"-" db:"password_hash"`
	FullName            string         `json:"full_name" db:"full_name"`
	Role                string         `json:"role" db:"role"`
	IsActive            bool           `json:"is_active" db:"is_active"`
	ProblemsReported    int            `json:"problems_reported" db:"problems_reported"`
	ProblemsApproved    int            `json:"problems_approved" db:"problems_approved"`
	RewardPoints        int            `json:"reward_points" db:"reward_points"`
	ReportingScore      int            `json:"reporting_score" db:"reporting_score"`
	TotalVolunteerHours int            `json:"total_volunteer_hours" db:"total_volunteer_hours"`
	Badges              pq.StringArray `json:"badges" db:"badges"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (i RegisterInput) Validate() error {
	email := strings.TrimSpace(i.Email)
	if email == "" || !strings.Contains(email, "@") {
		return NewValidationError("email", "a valid email is required")
	}
	if len(i.Password) < 8 {
		return NewValidationError("password", "password must be at least 8 characters")
	}
	if strings.TrimSpace(i.FullName) == "" {
		return NewValidationError("full_name", "full name is required")
	}
	return nil
}

type TokenPair struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// rank orders roles so that each one includes the permissions of the roles
// below it. Unknown roles rank below student.
func (r UserRole) rank() int {
	switch r {
	case RoleStudent:
		return 1
	case RoleOrganizer:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// HasRole reports whether the user holds required or a role above it.
func (u *User) HasRole(required UserRole) bool {
	return u != nil && required.IsValid() && UserRole(u.Role).rank() >= required.rank()
}

// IsElevated reports whether the user may see and triage every problem.
func (u *User) IsElevated() bool {
	return u != nil && u.Role == string(RoleAdmin)
}

func (u *User) HasBadge(badge string) bool {
	return slices.Contains(u.Badges, badge)
}

// Counters returns the reward counters the scoring engine evaluates.
func (u *User) Counters() RewardCounters {
	return RewardCounters{
		ProblemsReported: u.ProblemsReported,
		ProblemsApproved: u.ProblemsApproved,
		RewardPoints:     u.RewardPoints,
		ReportingScore:   u.ReportingScore,
	}
}

type RewardCounters struct {
	ProblemsReported int `json:"problems_reported"`
	ProblemsApproved int `json:"problems_approved"`
	RewardPoints     int `json:"reward_points"`
	ReportingScore   int `json:"reporting_score"`
}

// RewardDelta is an additive change to a user's reward fields. Counters only
// ever grow and badges are appended without duplicates.
type RewardDelta struct {
	ProblemsReported int      `json:"problems_reported,omitempty"`
	ProblemsApproved int      `json:"problems_approved,omitempty"`
	RewardPoints     int      `json:"reward_points,omitempty"`
	ReportingScore   int      `json:"reporting_score,omitempty"`
	Badges           []string `json:"badges,omitempty"`
}

func (d RewardDelta) IsZero() bool {
	return d.ProblemsReported == 0 && d.ProblemsApproved == 0 &&
		d.RewardPoints == 0 && d.ReportingScore == 0 && len(d.Badges) == 0
}

// Apply adds the delta to the user in place.
func (u *User) Apply(d RewardDelta) {
	u.ProblemsReported += d.ProblemsReported
	u.ProblemsApproved += d.ProblemsApproved
	u.RewardPoints += d.RewardPoints
	u.ReportingScore += d.ReportingScore
	for _, b := range d.Badges {
		if !u.HasBadge(b) {
			u.Badges = append(u.Badges, b)
		}
	}
}

// LeaderboardEntry is the public projection of a user's reward standing.
type LeaderboardEntry struct {
	UserID       uuid.UUID      `json:"user_id" db:"user_id"`
	FullName     string         `json:"full_name" db:"full_name"`
	RewardPoints int            `json:"reward_points" db:"reward_points"`
	Badges       pq.StringArray `json:"badges" db:"badges"`
}

// RewardRule computes a credit from the user's counters as the store holds
// them at write time, with the user row locked.
type RewardRule func(current *User) RewardDelta

// FixedReward is a RewardRule that does not depend on the current counters.
func FixedReward(d RewardDelta) RewardRule {
	return func(*User) RewardDelta { return d }
}

// RewardOutcome is what a RewardRule produced and the user after applying it.
type RewardOutcome struct {
	Delta RewardDelta
	User  *User
}
