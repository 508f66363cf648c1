package problem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/pkg/category"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/service/leaderboard"
	"campus-volunteer/internal/service/notification"
	"campus-volunteer/internal/service/scoring"
)

const (
	defaultEventLead      = 7 * 24 * time.Hour
	eventLength           = 4 * time.Hour
	registrationCloses    = 24 * time.Hour
	defaultEventCapacity  = 50
	derivedEventTitleHead = "Community Action: "
)

type Service interface {
	Submit(ctx context.Context, reporterID uuid.UUID, input domain.SubmitProblemInput) (*domain.SubmitResult, error)
	Get(ctx context.Context, id uuid.UUID, viewer *domain.User) (*domain.Problem, error)
	List(ctx context.Context, viewer *domain.User, filter domain.ProblemFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Problem], error)
	Approve(ctx context.Context, id, reviewerID uuid.UUID, input domain.ApproveProblemInput) (*domain.ReviewResult, error)
	Reject(ctx context.Context, id, reviewerID uuid.UUID, input domain.RejectProblemInput) (*domain.Problem, error)
	Resolve(ctx context.Context, id uuid.UUID) (*domain.ReviewResult, error)
}

type service struct {
	problemRepo repository.ProblemRepository
	userRepo    repository.UserRepository
	eventRepo   repository.EventRepository
	categories  *category.Table
	notifSvc    notification.Service
	leaderboard leaderboard.Service
	clock       domain.Clock
	logger      *zap.Logger
}

func NewService(
	repos *repository.Repositories,
	categories *category.Table,
	notifSvc notification.Service,
	leaderboardSvc leaderboard.Service,
	clock domain.Clock,
	logger *zap.Logger,
) Service {
	if categories == nil {
		categories = category.Default()
	}
	return &service{
		problemRepo: repos.Problem,
		userRepo:    repos.User,
		eventRepo:   repos.Event,
		categories:  categories,
		notifSvc:    notifSvc,
		leaderboard: leaderboardSvc,
		clock:       clock,
		logger:      logger,
	}
}

func (s *service) Submit(ctx context.Context, reporterID uuid.UUID, input domain.SubmitProblemInput) (*domain.SubmitResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	severity := domain.SeverityMedium
	if input.Severity != nil {
		severity = *input.Severity
	}

	problem := &domain.Problem{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Category:        strings.TrimSpace(input.Category),
		LocationAddress: strings.TrimSpace(input.Location.Address),
		Latitude:        input.Location.Latitude,
		Longitude:       input.Location.Longitude,
		Images:          input.Images,
		Severity:        severity,
		Status:          domain.ProblemPending,
		Visibility:      domain.VisibilityPrivate,
		ReportedBy:      reporterID,
		CreatedAt:       s.clock.Now(),
	}
	if problem.Images == nil {
		problem.Images = []string{}
	}

	outcome, err := s.problemRepo.Create(ctx, problem, func(reporter *domain.User) domain.RewardDelta {
		return scoring.SubmissionDelta(reporter.Counters(), reporter.Badges)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	s.logger.Info("problem submitted",
		zap.String("problem_id", problem.ID.String()),
		zap.String("reporter_id", reporterID.String()),
		zap.Strings("new_badges", outcome.Delta.Badges),
	)

	return &domain.SubmitResult{
		Problem:   problem,
		NewBadges: nonNil(outcome.Delta.Badges),
		Reporter:  domain.TotalsOf(outcome.User),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, viewer *domain.User) (*domain.Problem, error) {
	problem, err := s.mustGetProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !problem.CanBeViewedBy(viewer) {
		return nil, domain.NewAuthorizationError("you do not have access to this problem")
	}
	return problem, nil
}

// List narrows the filter to what the viewer may see: elevated users see
// everything, others see public problems plus their own reports.
func (s *service) List(ctx context.Context, viewer *domain.User, filter domain.ProblemFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Problem], error) {
	params.Validate()

	if viewer == nil || !viewer.IsElevated() {
		filter.PublicOnly = true
		if viewer != nil && filter.ReportedBy == nil {
			filter.ReportedBy = &viewer.ID
		}
	}

	problems, total, err := s.problemRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Problem]{}, err
	}
	return domain.NewPaginatedResponse(problems, params.Page, params.PageSize, total), nil
}

func (s *service) Approve(ctx context.Context, id, reviewerID uuid.UUID, input domain.ApproveProblemInput) (*domain.ReviewResult, error) {
	problem, err := s.mustGetProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	if problem.Status != domain.ProblemPending {
		return nil, domain.ErrAlreadyReviewed
	}

	now := s.clock.Now()
	event, err := s.deriveEvent(problem, reviewerID, input, now)
	if err != nil {
		return nil, err
	}

	monthly, err := s.problemRepo.CountByReporterSince(ctx, problem.ReportedBy, domain.StartOfMonth(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly reports: %w", err)
	}

	award := scoring.ApprovalPoints(problem.Severity)

	review := domain.ProblemReview{
		ProblemID:     problem.ID,
		Status:        domain.ProblemApproved,
		Visibility:    domain.VisibilityPublic,
		ReviewedBy:    reviewerID,
		ReviewedAt:    now,
		EventID:       &event.ID,
		PointsAwarded: &award,
	}
	// Thresholds are evaluated on the reporter's counters inside the store's
	// lock so concurrent approvals cannot skip a badge.
	outcome, err := s.problemRepo.Approve(ctx, review, event, problem.ReportedBy, func(reporter *domain.User) domain.RewardDelta {
		return scoring.ApprovalDelta(problem.Severity, reporter.Counters(), reporter.Badges, int(monthly))
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to approve problem: %w", err)
	}
	reporter, delta := outcome.User, outcome.Delta

	problem.Status = review.Status
	problem.Visibility = review.Visibility
	problem.ReviewedBy = &reviewerID
	problem.ReviewedAt = &now
	problem.EventID = &event.ID
	problem.PointsAwarded = &award

	s.logger.Info("problem approved",
		zap.String("problem_id", problem.ID.String()),
		zap.String("event_id", event.ID.String()),
		zap.Int("points_awarded", award),
		zap.Strings("new_badges", delta.Badges),
	)

	s.invalidateLeaderboard(ctx)
	if s.notifSvc != nil {
		s.notifSvc.NotifyProblemApproved(*reporter, problem, event, award)
		s.notifSvc.NotifyNewEvent(event)
	}

	return &domain.ReviewResult{
		Problem:   problem,
		Event:     event,
		Award:     award,
		NewBadges: nonNil(delta.Badges),
		Reporter:  domain.TotalsOf(reporter),
	}, nil
}

func (s *service) Reject(ctx context.Context, id, reviewerID uuid.UUID, input domain.RejectProblemInput) (*domain.Problem, error) {
	problem, err := s.mustGetProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	if problem.Status != domain.ProblemPending {
		return nil, domain.ErrAlreadyReviewed
	}

	var feedback *string
	if input.Feedback != nil {
		if trimmed := strings.TrimSpace(*input.Feedback); trimmed != "" {
			feedback = &trimmed
		}
	}

	now := s.clock.Now()
	review := domain.ProblemReview{
		ProblemID:  problem.ID,
		Status:     domain.ProblemRejected,
		Visibility: domain.VisibilityPrivate,
		ReviewedBy: reviewerID,
		ReviewedAt: now,
		Feedback:   feedback,
	}
	if err := s.problemRepo.Reject(ctx, review); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to reject problem: %w", err)
	}

	problem.Status = review.Status
	problem.Visibility = review.Visibility
	problem.ReviewedBy = &reviewerID
	problem.ReviewedAt = &now
	problem.ReviewFeedback = feedback

	s.logger.Info("problem rejected", zap.String("problem_id", problem.ID.String()))

	if s.notifSvc != nil {
		if reporter, err := s.userRepo.GetByID(ctx, problem.ReportedBy); err == nil && reporter != nil {
			s.notifSvc.NotifyProblemRejected(*reporter, problem)
		} else {
			s.logger.Warn("reporter not found for rejection notice", zap.String("problem_id", problem.ID.String()))
		}
	}

	return problem, nil
}

func (s *service) Resolve(ctx context.Context, id uuid.UUID) (*domain.ReviewResult, error) {
	problem, err := s.mustGetProblem(ctx, id)
	if err != nil {
		return nil, err
	}
	if problem.Status != domain.ProblemApproved {
		return nil, domain.ErrOnlyApprovedSolved
	}

	now := s.clock.Now()
	outcome, err := s.problemRepo.Resolve(ctx, problem.ID, now, problem.ReportedBy, domain.FixedReward(scoring.ResolutionDelta()))
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, domain.ErrOnlyApprovedSolved
		}
		return nil, fmt.Errorf("failed to resolve problem: %w", err)
	}
	reporter, delta := outcome.User, outcome.Delta

	problem.Status = domain.ProblemResolved
	problem.Visibility = domain.VisibilityPrivate
	problem.ResolvedAt = &now

	s.logger.Info("problem resolved", zap.String("problem_id", problem.ID.String()))

	s.invalidateLeaderboard(ctx)
	if s.notifSvc != nil {
		s.notifSvc.NotifyProblemResolved(*reporter, problem, delta.RewardPoints)
	}

	var event *domain.Event
	if problem.EventID != nil {
		event, _ = s.eventRepo.GetByID(ctx, *problem.EventID)
	}

	return &domain.ReviewResult{
		Problem:   problem,
		Event:     event,
		Award:     delta.RewardPoints,
		NewBadges: []string{},
		Reporter:  domain.TotalsOf(reporter),
	}, nil
}

// deriveEvent builds the event for an approved problem. Reviewer-supplied
// details override the defaults.
func (s *service) deriveEvent(problem *domain.Problem, reviewerID uuid.UUID, input domain.ApproveProblemInput, now time.Time) (*domain.Event, error) {
	start := now.Add(defaultEventLead)
	if input.EventDate != nil {
		start = *input.EventDate
	}

	event := &domain.Event{
		ID:                   uuid.New(),
		Title:                derivedEventTitleHead + problem.Title,
		Description:          problem.Description,
		Type:                 s.categories.EventType(problem.Category),
		Location:             problem.LocationAddress,
		StartAt:              start,
		EndAt:                start.Add(eventLength),
		RegistrationDeadline: start.Add(-registrationCloses),
		MaxParticipants:      defaultEventCapacity,
		Status:               domain.EventUpcoming,
		ProblemID:            &problem.ID,
		IsProblemDerived:     true,
		CreatedBy:            reviewerID,
	}

	if d := input.EventDetails; d != nil {
		if d.Title != nil && strings.TrimSpace(*d.Title) != "" {
			event.Title = strings.TrimSpace(*d.Title)
		}
		if d.Description != nil && strings.TrimSpace(*d.Description) != "" {
			event.Description = strings.TrimSpace(*d.Description)
		}
		if d.Location != nil && strings.TrimSpace(*d.Location) != "" {
			event.Location = strings.TrimSpace(*d.Location)
		}
		if d.MaxParticipants != nil {
			if *d.MaxParticipants < 0 {
				return nil, domain.NewValidationError("event_details.max_participants", "max participants cannot be negative")
			}
			event.MaxParticipants = *d.MaxParticipants
		}
	}

	return event, nil
}

func (s *service) invalidateLeaderboard(ctx context.Context) {
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}
}

func (s *service) mustGetProblem(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	problem, err := s.problemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if problem == nil {
		return nil, domain.NewNotFoundError("problem", id)
	}
	return problem, nil
}

func nonNil(badges []string) []string {
	if badges == nil {
		return []string{}
	}
	return badges
}
