package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type StateErrorKind string

const (
	StateAlreadyReviewed   StateErrorKind = "already_reviewed"
	StateNotApproved       StateErrorKind = "not_approved"
	StateNotPending        StateErrorKind = "not_pending"
	StateEventNotOpen      StateErrorKind = "event_not_open"
	StateDeadlinePassed    StateErrorKind = "registration_deadline_passed"
	StateEventFull         StateErrorKind = "event_full"
	StateAlreadyRegistered StateErrorKind = "already_registered"
	StateNotAttendable     StateErrorKind = "not_attendable"
)

// InvalidStateError reports an action that is not valid for the entity's
// current state. Callers must re-fetch before retrying.
type InvalidStateError struct {
	Kind    StateErrorKind
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// Is matches another InvalidStateError of the same kind, so sentinel values
// below work with errors.Is.
func (e *InvalidStateError) Is(target error) bool {
	t, ok := target.(*InvalidStateError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewInvalidStateError(kind StateErrorKind, message string) error {
	return &InvalidStateError{Kind: kind, Message: message}
}

var (
	ErrAlreadyReviewed    = &InvalidStateError{Kind: StateAlreadyReviewed, Message: "problem has already been reviewed"}
	ErrOnlyApprovedSolved = &InvalidStateError{Kind: StateNotApproved, Message: "only approved problems can be resolved"}
	ErrNotPending         = &InvalidStateError{Kind: StateNotPending, Message: "participation is not pending"}
	ErrEventNotOpen       = &InvalidStateError{Kind: StateEventNotOpen, Message: "event is not open for registration"}
	ErrDeadlinePassed     = &InvalidStateError{Kind: StateDeadlinePassed, Message: "registration deadline has passed"}
	ErrEventFull          = &InvalidStateError{Kind: StateEventFull, Message: "event has reached its capacity"}
	ErrAlreadyRegistered  = &InvalidStateError{Kind: StateAlreadyRegistered, Message: "already registered for this event"}
	ErrNotAttendable      = &InvalidStateError{Kind: StateNotAttendable, Message: "attendance can only be marked for approved registrations"}
)

type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id uuid.UUID) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// DeliveryError is a per-recipient, per-channel notification failure. It is
// recorded in fan-out results and logs and never returned from a workflow.
type DeliveryError struct {
	Channel     string
	RecipientID uuid.UUID
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery to %s failed: %v", e.Channel, e.RecipientID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
