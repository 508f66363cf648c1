package participation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/service/notification"
)

type Service interface {
	Register(ctx context.Context, eventID, studentID uuid.UUID) (*domain.Participation, error)
	Approve(ctx context.Context, id, reviewerID uuid.UUID) (*domain.Participation, error)
	Reject(ctx context.Context, id, reviewerID uuid.UUID, input domain.ReviewParticipationInput) (*domain.Participation, error)
	MarkAttendance(ctx context.Context, id uuid.UUID, input domain.MarkAttendanceInput) (*domain.AttendanceResult, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, status domain.ParticipationStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Participation], error)
}

type service struct {
	participationRepo repository.ParticipationRepository
	eventRepo         repository.EventRepository
	userRepo          repository.UserRepository
	notifSvc          notification.Service
	clock             domain.Clock
	logger            *zap.Logger
}

func NewService(repos *repository.Repositories, notifSvc notification.Service, clock domain.Clock, logger *zap.Logger) Service {
	return &service{
		participationRepo: repos.Participation,
		eventRepo:         repos.Event,
		userRepo:          repos.User,
		notifSvc:          notifSvc,
		clock:             clock,
		logger:            logger,
	}
}

func (s *service) Register(ctx context.Context, eventID, studentID uuid.UUID) (*domain.Participation, error) {
	event, err := s.mustGetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status != domain.EventUpcoming {
		return nil, domain.ErrEventNotOpen
	}
	if !s.clock.Now().Before(event.RegistrationDeadline) {
		return nil, domain.ErrDeadlinePassed
	}

	existing, err := s.participationRepo.GetByEventAndStudent(ctx, eventID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyRegistered
	}

	p := &domain.Participation{
		ID:        uuid.New(),
		EventID:   eventID,
		StudentID: studentID,
		Status:    domain.ParticipationPending,
	}
	if err := s.participationRepo.CreateWithinCapacity(ctx, p, event.MaxParticipants); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, domain.ErrAlreadyRegistered
		case errors.Is(err, repository.ErrCapacityReached):
			return nil, domain.ErrEventFull
		}
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info("participation registered",
		zap.String("participation_id", p.ID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("student_id", studentID.String()),
	)
	return p, nil
}

func (s *service) Approve(ctx context.Context, id, reviewerID uuid.UUID) (*domain.Participation, error) {
	p, err := s.review(ctx, id, reviewerID, domain.ParticipationApproved, nil)
	if err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		if student, event := s.recipientAndEvent(ctx, p); student != nil && event != nil {
			s.notifSvc.NotifyRegistrationApproved(*student, event)
		}
	}
	return p, nil
}

func (s *service) Reject(ctx context.Context, id, reviewerID uuid.UUID, input domain.ReviewParticipationInput) (*domain.Participation, error) {
	p, err := s.review(ctx, id, reviewerID, domain.ParticipationRejected, input.Reason)
	if err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		if student, event := s.recipientAndEvent(ctx, p); student != nil && event != nil {
			s.notifSvc.NotifyRegistrationRejected(*student, event, input.Reason)
		}
	}
	return p, nil
}

func (s *service) review(ctx context.Context, id, reviewerID uuid.UUID, to domain.ParticipationStatus, reason *string) (*domain.Participation, error) {
	p, err := s.mustGetParticipation(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.ParticipationPending {
		return nil, domain.ErrNotPending
	}

	now := s.clock.Now()
	if err := s.participationRepo.UpdateStatus(ctx, id, domain.ParticipationPending, to, reviewerID, now, reason); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, domain.ErrNotPending
		}
		return nil, fmt.Errorf("failed to update participation: %w", err)
	}

	p.Status = to
	p.ReviewedBy = &reviewerID
	p.ReviewedAt = &now
	p.RejectReason = reason

	s.logger.Info("participation reviewed",
		zap.String("participation_id", id.String()),
		zap.String("status", string(to)),
	)
	return p, nil
}

// MarkAttendance toggles attendance. Turning it on credits the event's hours
// (or the supplied value) to the student; turning it off subtracts exactly
// what was credited, so on-then-off restores the original total.
func (s *service) MarkAttendance(ctx context.Context, id uuid.UUID, input domain.MarkAttendanceInput) (*domain.AttendanceResult, error) {
	p, err := s.mustGetParticipation(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Attended == p.Attended {
		switch p.Status {
		case domain.ParticipationApproved, domain.ParticipationAttended:
			student, err := s.mustGetUser(ctx, p.StudentID)
			if err != nil {
				return nil, err
			}
			return &domain.AttendanceResult{Participation: p, TotalVolunteerHours: student.TotalVolunteerHours}, nil
		}
		return nil, domain.ErrNotAttendable
	}

	event, err := s.mustGetEvent(ctx, p.EventID)
	if err != nil {
		return nil, err
	}

	change := domain.AttendanceChange{
		ParticipationID: p.ID,
		Attended:        input.Attended,
		StudentID:       p.StudentID,
	}
	if input.Attended {
		if p.Status != domain.ParticipationApproved {
			return nil, domain.ErrNotAttendable
		}
		hours := event.DurationHours()
		if input.Hours != nil {
			if *input.Hours < 0 {
				return nil, domain.NewValidationError("hours", "hours cannot be negative")
			}
			hours = *input.Hours
		}
		change.FromStatus = domain.ParticipationApproved
		change.ToStatus = domain.ParticipationAttended
		change.Hours = hours
		change.HoursDelta = hours
	} else {
		if p.Status != domain.ParticipationAttended {
			return nil, domain.ErrNotAttendable
		}
		change.FromStatus = domain.ParticipationAttended
		change.ToStatus = domain.ParticipationApproved
		change.Hours = 0
		change.HoursDelta = -p.VolunteerHours
	}

	total, err := s.participationRepo.SetAttendance(ctx, change)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, domain.ErrNotAttendable
		}
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}

	p.Status = change.ToStatus
	p.Attended = change.Attended
	p.VolunteerHours = change.Hours

	s.logger.Info("attendance marked",
		zap.String("participation_id", p.ID.String()),
		zap.Bool("attended", p.Attended),
		zap.Int("hours_delta", change.HoursDelta),
	)

	if input.Attended && s.notifSvc != nil {
		if student, err := s.userRepo.GetByID(ctx, p.StudentID); err == nil && student != nil {
			s.notifSvc.NotifyAttendanceMarked(*student, event, change.Hours)
		}
	}

	return &domain.AttendanceResult{Participation: p, TotalVolunteerHours: total}, nil
}

// ListByEvent pages the event's roster in registration order. The roster is
// bounded by the event's capacity, so it is loaded whole and paged here.
func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID, status domain.ParticipationStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Participation], error) {
	list, err := s.participationRepo.ListByEvent(ctx, eventID, status)
	if err != nil {
		return domain.PaginatedResponse[domain.Participation]{}, err
	}
	return domain.PageOf(list, params), nil
}

func (s *service) recipientAndEvent(ctx context.Context, p *domain.Participation) (*domain.User, *domain.Event) {
	student, err := s.userRepo.GetByID(ctx, p.StudentID)
	if err != nil || student == nil {
		s.logger.Warn("student not found for participation notice", zap.String("participation_id", p.ID.String()))
		return nil, nil
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil || event == nil {
		s.logger.Warn("event not found for participation notice", zap.String("participation_id", p.ID.String()))
		return nil, nil
	}
	return student, event
}

func (s *service) mustGetParticipation(ctx context.Context, id uuid.UUID) (*domain.Participation, error) {
	p, err := s.participationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	if p == nil {
		return nil, domain.NewNotFoundError("participation", id)
	}
	return p, nil
}

func (s *service) mustGetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, domain.NewNotFoundError("event", id)
	}
	return event, nil
}

func (s *service) mustGetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", id)
	}
	return user, nil
}
