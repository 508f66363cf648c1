package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/service/notification"
)

type Service interface {
	// SendUpcomingReminders notifies approved participants of events that
	// start within the lead time and were not covered by the previous run.
	SendUpcomingReminders(ctx context.Context) (int, error)
	// Run calls SendUpcomingReminders every interval until ctx is done.
	Run(ctx context.Context)
}

type service struct {
	eventRepo         repository.EventRepository
	participationRepo repository.ParticipationRepository
	userRepo          repository.UserRepository
	notifSvc          notification.Service
	clock             domain.Clock
	interval          time.Duration
	leadTime          time.Duration
	logger            *zap.Logger
}

func NewService(
	repos *repository.Repositories,
	notifSvc notification.Service,
	clock domain.Clock,
	interval, leadTime time.Duration,
	logger *zap.Logger,
) Service {
	return &service{
		eventRepo:         repos.Event,
		participationRepo: repos.Participation,
		userRepo:          repos.User,
		notifSvc:          notifSvc,
		clock:             clock,
		interval:          interval,
		leadTime:          leadTime,
		logger:            logger,
	}
}

func (s *service) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Warn("event reminders disabled", zap.Duration("interval", s.interval))
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := s.SendUpcomingReminders(ctx)
			if err != nil {
				s.logger.Error("reminder run failed", zap.Error(err))
				continue
			}
			if sent > 0 {
				s.logger.Info("event reminders sent", zap.Int("events", sent))
			}
		}
	}
}

// The window [now+lead-interval, now+lead) slides by one interval per run, so
// each event is reminded once when runs happen on schedule.
func (s *service) SendUpcomingReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()
	to := now.Add(s.leadTime)
	from := to.Add(-s.interval)
	if from.Before(now) {
		from = now
	}

	events, err := s.eventRepo.ListStartingBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	sent := 0
	for i := range events {
		event := &events[i]
		recipients, err := s.participants(ctx, event)
		if err != nil {
			s.logger.Error("failed to load participants",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if len(recipients) == 0 {
			continue
		}

		result := s.notifSvc.Notify(ctx, recipients, reminderPayload(event))
		s.logger.Debug("event reminder delivered",
			zap.String("event_id", event.ID.String()),
			zap.Int("recipients", result.Recipients),
			zap.Int("failures", len(result.Errors())),
		)
		sent++
	}
	return sent, nil
}

func (s *service) participants(ctx context.Context, event *domain.Event) ([]domain.User, error) {
	approved, err := s.participationRepo.ListByEvent(ctx, event.ID, domain.ParticipationApproved)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(approved))
	for _, p := range approved {
		u, err := s.userRepo.GetByID(ctx, p.StudentID)
		if err != nil {
			return nil, err
		}
		if u != nil && u.IsActive {
			users = append(users, *u)
		}
	}
	return users, nil
}

func reminderPayload(event *domain.Event) notification.Payload {
	return notification.Payload{
		Type:    domain.NotifEventReminder,
		Title:   "Event Reminder",
		Message: fmt.Sprintf("%s starts on %s.", event.Title, event.StartAt.Format(time.RFC1123)),
		Data:    map[string]string{"event_id": event.ID.String()},
		Details: []notification.Detail{
			{Label: "Event", Value: event.Title},
			{Label: "Location", Value: event.Location},
			{Label: "Starts", Value: event.StartAt.Format(time.RFC1123)},
		},
		Link: "/events/" + event.ID.String(),
	}
}
