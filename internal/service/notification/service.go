package notification

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// Notify runs the fan-out synchronously.
	Notify(ctx context.Context, recipients []domain.User, payload Payload) Result

	// The Notify* helpers hand the fan-out to a background goroutine and
	// return immediately.
	NotifyProblemApproved(reporter domain.User, problem *domain.Problem, event *domain.Event, points int)
	NotifyNewEvent(event *domain.Event)
	NotifyProblemRejected(reporter domain.User, problem *domain.Problem)
	NotifyProblemResolved(reporter domain.User, problem *domain.Problem, bonus int)
	NotifyRegistrationApproved(student domain.User, event *domain.Event)
	NotifyRegistrationRejected(student domain.User, event *domain.Event, reason *string)
	NotifyAttendanceMarked(student domain.User, event *domain.Event, hours int)

	// Wait blocks until every background fan-out has finished.
	Wait()
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	fanout    *Fanout
	logger    *zap.Logger

	inflight sync.WaitGroup
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	fanout *Fanout,
	logger *zap.Logger,
) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		fanout:    fanout,
		logger:    logger,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) Notify(ctx context.Context, recipients []domain.User, payload Payload) Result {
	return s.fanout.Notify(ctx, recipients, payload)
}

func (s *service) Wait() {
	s.inflight.Wait()
}

// dispatch runs fn detached from the request context; fan-out outlives the
// request that triggered it.
func (s *service) dispatch(fn func(ctx context.Context)) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		fn(context.Background())
	}()
}

func (s *service) notifyOne(recipient domain.User, payload Payload) {
	s.dispatch(func(ctx context.Context) {
		s.fanout.Notify(ctx, []domain.User{recipient}, payload)
	})
}

func (s *service) NotifyProblemApproved(reporter domain.User, problem *domain.Problem, event *domain.Event, points int) {
	s.notifyOne(reporter, Payload{
		Type:    domain.NotifProblemApproved,
		Title:   "Problem Approved",
		Message: fmt.Sprintf("Your report %q was approved and you earned %d points.", problem.Title, points),
		Data: map[string]string{
			"problem_id": problem.ID.String(),
			"event_id":   event.ID.String(),
			"points":     strconv.Itoa(points),
		},
		Details: []Detail{
			{Label: "Problem", Value: problem.Title},
			{Label: "Points awarded", Value: strconv.Itoa(points)},
			{Label: "Event", Value: event.Title},
		},
		Link: "/problems/" + problem.ID.String(),
	})
}

// NotifyNewEvent announces an event to every active user.
func (s *service) NotifyNewEvent(event *domain.Event) {
	s.dispatch(func(ctx context.Context) {
		recipients, err := s.userRepo.ListActive(ctx)
		if err != nil {
			s.logger.Error("failed to load active users for broadcast",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			return
		}
		s.fanout.Notify(ctx, recipients, Payload{
			Type:    domain.NotifNewEvent,
			Title:   "New Volunteering Event",
			Message: fmt.Sprintf("%s is open for registration.", event.Title),
			Data: map[string]string{
				"event_id": event.ID.String(),
			},
			Details: []Detail{
				{Label: "Event", Value: event.Title},
				{Label: "Location", Value: event.Location},
				{Label: "Starts", Value: event.StartAt.Format(time.RFC1123)},
				{Label: "Register by", Value: event.RegistrationDeadline.Format(time.RFC1123)},
			},
			Link: "/events/" + event.ID.String(),
		})
	})
}

func (s *service) NotifyProblemRejected(reporter domain.User, problem *domain.Problem) {
	msg := fmt.Sprintf("Your report %q was not approved.", problem.Title)
	details := []Detail{{Label: "Problem", Value: problem.Title}}
	data := map[string]string{"problem_id": problem.ID.String()}
	if problem.ReviewFeedback != nil && *problem.ReviewFeedback != "" {
		msg += " Feedback: " + *problem.ReviewFeedback
		details = append(details, Detail{Label: "Feedback", Value: *problem.ReviewFeedback})
		data["feedback"] = *problem.ReviewFeedback
	}

	s.notifyOne(reporter, Payload{
		Type:    domain.NotifProblemRejected,
		Title:   "Problem Not Approved",
		Message: msg,
		Data:    data,
		Details: details,
		Link:    "/problems/" + problem.ID.String(),
	})
}

func (s *service) NotifyProblemResolved(reporter domain.User, problem *domain.Problem, bonus int) {
	s.notifyOne(reporter, Payload{
		Type:    domain.NotifProblemResolved,
		Title:   "Problem Resolved",
		Message: fmt.Sprintf("Your report %q has been resolved. You earned a %d point bonus.", problem.Title, bonus),
		Data: map[string]string{
			"problem_id": problem.ID.String(),
			"points":     strconv.Itoa(bonus),
		},
		Details: []Detail{
			{Label: "Problem", Value: problem.Title},
			{Label: "Bonus points", Value: strconv.Itoa(bonus)},
		},
		Link: "/problems/" + problem.ID.String(),
	})
}

func (s *service) NotifyRegistrationApproved(student domain.User, event *domain.Event) {
	s.notifyOne(student, Payload{
		Type:    domain.NotifRegistrationApproved,
		Title:   "Registration Approved",
		Message: fmt.Sprintf("Your registration for %s was approved.", event.Title),
		Data:    map[string]string{"event_id": event.ID.String()},
		Details: []Detail{
			{Label: "Event", Value: event.Title},
			{Label: "Starts", Value: event.StartAt.Format(time.RFC1123)},
			{Label: "Location", Value: event.Location},
		},
		Link: "/events/" + event.ID.String(),
	})
}

func (s *service) NotifyRegistrationRejected(student domain.User, event *domain.Event, reason *string) {
	msg := fmt.Sprintf("Your registration for %s was not approved.", event.Title)
	data := map[string]string{"event_id": event.ID.String()}
	if reason != nil && *reason != "" {
		msg += " Reason: " + *reason
		data["reason"] = *reason
	}

	s.notifyOne(student, Payload{
		Type:    domain.NotifRegistrationRejected,
		Title:   "Registration Not Approved",
		Message: msg,
		Data:    data,
		Link:    "/events/" + event.ID.String(),
	})
}

func (s *service) NotifyAttendanceMarked(student domain.User, event *domain.Event, hours int) {
	s.notifyOne(student, Payload{
		Type:    domain.NotifAttendanceMarked,
		Title:   "Attendance Recorded",
		Message: fmt.Sprintf("Thanks for volunteering at %s! %d hours were added to your record.", event.Title, hours),
		Data: map[string]string{
			"event_id": event.ID.String(),
			"hours":    strconv.Itoa(hours),
		},
		Details: []Detail{
			{Label: "Event", Value: event.Title},
			{Label: "Volunteer hours", Value: strconv.Itoa(hours)},
		},
	})
}
