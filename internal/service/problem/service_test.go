package problem_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/pkg/category"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/repository/memory"
	"campus-volunteer/internal/service/leaderboard"
	"campus-volunteer/internal/service/notification"
	"campus-volunteer/internal/service/problem"
	"campus-volunteer/internal/service/scoring"
)

type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = t
}

type fixture struct {
	svc      problem.Service
	repos    *repository.Repositories
	notifSvc notification.Service
	clock    *testClock
	admin    *domain.User
	reporter *domain.User
	other    *domain.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{at: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	db := memory.Open()
	db.SetClock(clock)
	repos := memory.NewRepositories(db)
	logger := zap.NewNop()

	notifSvc := notification.NewService(repos.Notification, repos.User,
		notification.NewFanout(logger, notification.NewInboxChannel(repos.Notification, logger)), logger)
	svc := problem.NewService(repos, category.Default(), notifSvc, leaderboard.NewService(repos.User, nil), clock, logger)

	f := &fixture{svc: svc, repos: repos, notifSvc: notifSvc, clock: clock}
	f.admin = f.createUser(t, domain.RoleAdmin)
	f.reporter = f.createUser(t, domain.RoleStudent)
	f.other = f.createUser(t, domain.RoleStudent)
	return f
}

func (f *fixture) createUser(t *testing.T, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@campus.test",
		FullName: string(role) + " user",
		Role:     string(role),
		IsActive: true,
	}
	require.NoError(t, f.repos.User.Create(context.Background(), u))
	return u
}

func (f *fixture) user(t *testing.T, id uuid.UUID) *domain.User {
	t.Helper()
	u, err := f.repos.User.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func (f *fixture) submit(t *testing.T, reporter uuid.UUID, category string, severity domain.Severity) *domain.Problem {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), reporter, domain.SubmitProblemInput{
		Title:       "Broken pipe near library",
		Description: "Water leaking onto the walkway",
		Category:    category,
		Location:    domain.LocationInput{Address: "Library, north entrance"},
		Severity:    &severity,
	})
	require.NoError(t, err)
	return res.Problem
}

func (f *fixture) inbox(t *testing.T, userID uuid.UUID) []domain.Notification {
	t.Helper()
	f.notifSvc.Wait()
	list, _, err := f.repos.Notification.ListByUser(context.Background(), userID, false, domain.PaginationParams{Page: 1, PageSize: 100})
	require.NoError(t, err)
	return list
}

func assertVisibilityMatchesStatus(t *testing.T, p *domain.Problem) {
	t.Helper()
	assert.Equal(t, p.Status == domain.ProblemApproved, p.Visibility == domain.VisibilityPublic,
		"status %s with visibility %s", p.Status, p.Visibility)
}

func TestSubmit_Validation(t *testing.T) {
	f := setup(t)
	valid := domain.SubmitProblemInput{
		Title:       "Leak",
		Description: "Pipe leaking",
		Category:    "water",
		Location:    domain.LocationInput{Address: "Block A"},
	}

	tests := []struct {
		name   string
		mutate func(in *domain.SubmitProblemInput)
		field  string
	}{
		{"missing title", func(in *domain.SubmitProblemInput) { in.Title = "  " }, "title"},
		{"missing description", func(in *domain.SubmitProblemInput) { in.Description = "" }, "description"},
		{"missing category", func(in *domain.SubmitProblemInput) { in.Category = "" }, "category"},
		{"missing address", func(in *domain.SubmitProblemInput) { in.Location.Address = "" }, "location.address"},
		{"bad severity", func(in *domain.SubmitProblemInput) { s := domain.Severity("extreme"); in.Severity = &s }, "severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.Submit(context.Background(), f.reporter.ID, in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.Zero(t, f.user(t, f.reporter.ID).ProblemsReported)
}

func TestSubmit_FirstReportBonusOnce(t *testing.T) {
	f := setup(t)

	first, err := f.svc.Submit(context.Background(), f.reporter.ID, domain.SubmitProblemInput{
		Title: "Leak", Description: "Pipe leaking", Category: "water",
		Location: domain.LocationInput{Address: "Block A"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProblemPending, first.Problem.Status)
	assert.Equal(t, domain.VisibilityPrivate, first.Problem.Visibility)
	assert.Equal(t, domain.SeverityMedium, first.Problem.Severity)
	assert.Equal(t, []string{scoring.BadgeFirstReport}, first.NewBadges)
	assert.Equal(t, 20, first.Reporter.RewardPoints)

	second := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
	assert.NotNil(t, second)

	u := f.user(t, f.reporter.ID)
	assert.Equal(t, 2, u.ProblemsReported)
	assert.Equal(t, 20, u.RewardPoints)
	assert.Equal(t, []string{scoring.BadgeFirstReport}, []string(u.Badges))
}

func TestApprove_CriticalWaterProblem(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "water", domain.SeverityCritical)
	before := f.user(t, f.reporter.ID)

	res, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)

	assert.Equal(t, domain.EventTypeMaintenance, res.Event.Type)
	assert.True(t, res.Event.IsProblemDerived)
	require.NotNil(t, res.Event.ProblemID)
	assert.Equal(t, p.ID, *res.Event.ProblemID)

	now := f.clock.Now()
	assert.Equal(t, now.Add(7*24*time.Hour), res.Event.StartAt)
	assert.Equal(t, res.Event.StartAt.Add(4*time.Hour), res.Event.EndAt)
	assert.Equal(t, res.Event.StartAt.Add(-24*time.Hour), res.Event.RegistrationDeadline)

	assert.Equal(t, 20, res.Award)
	stored, err := f.repos.Problem.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PointsAwarded)
	assert.Equal(t, 20, *stored.PointsAwarded)
	assert.Equal(t, domain.ProblemApproved, stored.Status)
	assert.Equal(t, domain.VisibilityPublic, stored.Visibility)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, f.admin.ID, *stored.ReviewedBy)
	assert.Equal(t, res.Event.ID, *stored.EventID)

	after := f.user(t, f.reporter.ID)
	assert.Equal(t, before.RewardPoints+20, after.RewardPoints)
	assert.Equal(t, before.ReportingScore+20, after.ReportingScore)
	assert.Equal(t, before.ProblemsApproved+1, after.ProblemsApproved)
	assert.Equal(t, after.RewardPoints, res.Reporter.RewardPoints)

	event, err := f.repos.Event.GetByID(context.Background(), res.Event.ID)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Community Action: Broken pipe near library", event.Title)
}

func TestApprove_UsesSuppliedEventDetails(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "parking", domain.SeverityHigh)

	date := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	title := "Parking lot repaint"
	capacity := 12
	res, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{
		EventDate:    &date,
		EventDetails: &domain.EventDetailsInput{Title: &title, MaxParticipants: &capacity},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.EventTypeOther, res.Event.Type)
	assert.Equal(t, date, res.Event.StartAt)
	assert.Equal(t, date.Add(4*time.Hour), res.Event.EndAt)
	assert.Equal(t, title, res.Event.Title)
	assert.Equal(t, 12, res.Event.MaxParticipants)
	assert.Equal(t, 15, res.Award)
}

func TestApprove_SecondCallFailsWithoutDoubleCredit(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)

	_, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)
	afterFirst := f.user(t, f.reporter.ID)

	_, err = f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	var serr *domain.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, domain.StateAlreadyReviewed, serr.Kind)

	afterSecond := f.user(t, f.reporter.ID)
	assert.Equal(t, afterFirst.RewardPoints, afterSecond.RewardPoints)
	assert.Equal(t, afterFirst.ProblemsApproved, afterSecond.ProblemsApproved)
	assert.Equal(t, afterFirst.Badges, afterSecond.Badges)
}

func TestApprove_ConcurrentRequestsCreditOnce(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "water", domain.SeverityHigh)
	before := f.user(t, f.reporter.ID)

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrAlreadyReviewed):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)

	after := f.user(t, f.reporter.ID)
	assert.Equal(t, before.RewardPoints+15, after.RewardPoints)
	assert.Equal(t, before.ProblemsApproved+1, after.ProblemsApproved)
}

func TestApprove_FifthApprovalAwardsCommunityHeroOnce(t *testing.T) {
	f := setup(t)

	var problems []*domain.Problem
	for i := 0; i < 6; i++ {
		problems = append(problems, f.submit(t, f.reporter.ID, "waste", domain.SeverityLow))
	}

	for i, p := range problems {
		res, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
		require.NoError(t, err)

		switch i {
		case 0:
			assert.Equal(t, []string{scoring.BadgeActiveReporter}, res.NewBadges)
		case 4:
			assert.Equal(t, []string{scoring.BadgeCommunityHero}, res.NewBadges)
		default:
			assert.Empty(t, res.NewBadges, "approval %d", i+1)
		}
	}

	u := f.user(t, f.reporter.ID)
	assert.Equal(t, 6, u.ProblemsApproved)
	count := 0
	for _, b := range u.Badges {
		if b == scoring.BadgeCommunityHero {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// slowUsers widens the window between reading a user and writing the credit.
type slowUsers struct {
	repository.UserRepository
}

func (r slowUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	time.Sleep(20 * time.Millisecond)
	return r.UserRepository.GetByID(ctx, id)
}

// withSlowUserReads rebuilds the service over the same store with delayed
// user reads.
func (f *fixture) withSlowUserReads() problem.Service {
	repos := *f.repos
	repos.User = slowUsers{UserRepository: f.repos.User}
	logger := zap.NewNop()
	return problem.NewService(&repos, category.Default(), f.notifSvc, leaderboard.NewService(repos.User, nil), f.clock, logger)
}

func TestSubmit_ConcurrentFirstReportsCreditBonusOnce(t *testing.T) {
	f := setup(t)
	svc := f.withSlowUserReads()

	const attempts = 5
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		badges int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Submit(context.Background(), f.reporter.ID, domain.SubmitProblemInput{
				Title: "Leak", Description: "Pipe leaking", Category: "water",
				Location: domain.LocationInput{Address: "Block A"},
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			badges += len(res.NewBadges)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, badges)
	u := f.user(t, f.reporter.ID)
	assert.Equal(t, attempts, u.ProblemsReported)
	assert.Equal(t, 20, u.RewardPoints)
	assert.Equal(t, []string{scoring.BadgeFirstReport}, []string(u.Badges))
}

func TestApprove_ConcurrentApprovalsStillCrossThreshold(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var problems []*domain.Problem
	for i := 0; i < 5; i++ {
		problems = append(problems, f.submit(t, f.reporter.ID, "waste", domain.SeverityLow))
	}
	for _, p := range problems[:3] {
		_, err := f.svc.Approve(ctx, p.ID, f.admin.ID, domain.ApproveProblemInput{})
		require.NoError(t, err)
	}

	svc := f.withSlowUserReads()
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		earned []string
	)
	for _, p := range problems[3:] {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			res, err := svc.Approve(ctx, id, f.admin.ID, domain.ApproveProblemInput{})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			earned = append(earned, res.NewBadges...)
		}(p.ID)
	}
	wg.Wait()

	assert.Equal(t, []string{scoring.BadgeCommunityHero}, earned)
	u := f.user(t, f.reporter.ID)
	assert.Equal(t, 5, u.ProblemsApproved)
	assert.Contains(t, []string(u.Badges), scoring.BadgeCommunityHero)
}

func TestApprove_ActiveReporterCountsCurrentMonthOnly(t *testing.T) {
	f := setup(t)

	f.clock.Set(time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC))
	f.submit(t, f.reporter.ID, "waste", domain.SeverityLow)
	f.submit(t, f.reporter.ID, "waste", domain.SeverityLow)

	f.clock.Set(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	p := f.submit(t, f.reporter.ID, "waste", domain.SeverityLow)

	res, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)
	assert.NotContains(t, res.NewBadges, scoring.BadgeActiveReporter)

	f.submit(t, f.reporter.ID, "waste", domain.SeverityLow)
	p = f.submit(t, f.reporter.ID, "waste", domain.SeverityLow)
	res, err = f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)
	assert.Contains(t, res.NewBadges, scoring.BadgeActiveReporter)
}

func TestApprove_NotifiesReporterAndBroadcasts(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)

	_, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)

	types := func(list []domain.Notification) map[domain.NotificationType]int {
		m := map[domain.NotificationType]int{}
		for _, n := range list {
			m[n.Type]++
		}
		return m
	}

	reporterInbox := types(f.inbox(t, f.reporter.ID))
	assert.Equal(t, 1, reporterInbox[domain.NotifProblemApproved])
	assert.Equal(t, 1, reporterInbox[domain.NotifNewEvent])

	for _, u := range []*domain.User{f.admin, f.other} {
		inbox := types(f.inbox(t, u.ID))
		assert.Equal(t, 1, inbox[domain.NotifNewEvent])
		assert.Zero(t, inbox[domain.NotifProblemApproved])
	}
}

func TestReject_PendingProblem(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
	before := f.user(t, f.reporter.ID)

	feedback := "needs more detail"
	rejected, err := f.svc.Reject(context.Background(), p.ID, f.admin.ID, domain.RejectProblemInput{Feedback: &feedback})
	require.NoError(t, err)

	assert.Equal(t, domain.ProblemRejected, rejected.Status)
	assert.Equal(t, domain.VisibilityPrivate, rejected.Visibility)

	stored, err := f.repos.Problem.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProblemRejected, stored.Status)
	assert.Equal(t, domain.VisibilityPrivate, stored.Visibility)
	require.NotNil(t, stored.ReviewFeedback)
	assert.Equal(t, feedback, *stored.ReviewFeedback)
	assert.Nil(t, stored.EventID)
	assert.Nil(t, stored.PointsAwarded)

	after := f.user(t, f.reporter.ID)
	assert.Equal(t, before.RewardPoints, after.RewardPoints)
	assert.Equal(t, before.ReportingScore, after.ReportingScore)
	assert.Equal(t, before.ProblemsApproved, after.ProblemsApproved)

	inbox := f.inbox(t, f.reporter.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotifProblemRejected, inbox[0].Type)
	assert.Contains(t, inbox[0].Message, feedback)
	assert.Empty(t, f.inbox(t, f.other.ID))

	_, err = f.svc.Reject(context.Background(), p.ID, f.admin.ID, domain.RejectProblemInput{})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
}

func TestResolve(t *testing.T) {
	f := setup(t)

	t.Run("pending problem cannot be resolved", func(t *testing.T) {
		p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
		before := f.user(t, f.reporter.ID)

		_, err := f.svc.Resolve(context.Background(), p.ID)
		var serr *domain.InvalidStateError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, domain.StateNotApproved, serr.Kind)

		stored, _ := f.repos.Problem.GetByID(context.Background(), p.ID)
		assert.Equal(t, domain.ProblemPending, stored.Status)
		assert.Nil(t, stored.ResolvedAt)
		assert.Equal(t, before.RewardPoints, f.user(t, f.reporter.ID).RewardPoints)
	})

	t.Run("approved problem is resolved with bonus", func(t *testing.T) {
		p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
		_, err := f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
		require.NoError(t, err)
		before := f.user(t, f.reporter.ID)

		res, err := f.svc.Resolve(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProblemResolved, res.Problem.Status)
		assert.Equal(t, 5, res.Award)
		assertVisibilityMatchesStatus(t, res.Problem)

		after := f.user(t, f.reporter.ID)
		assert.Equal(t, before.RewardPoints+5, after.RewardPoints)
		assert.Equal(t, before.ProblemsApproved, after.ProblemsApproved)
		assert.Equal(t, before.Badges, after.Badges)

		stored, _ := f.repos.Problem.GetByID(context.Background(), p.ID)
		require.NotNil(t, stored.ResolvedAt)
		require.NotNil(t, stored.PointsAwarded)
		assert.Equal(t, 10, *stored.PointsAwarded)

		_, err = f.svc.Resolve(context.Background(), p.ID)
		assert.ErrorIs(t, err, domain.ErrOnlyApprovedSolved)
	})

	t.Run("rejected problem cannot be resolved", func(t *testing.T) {
		p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
		_, err := f.svc.Reject(context.Background(), p.ID, f.admin.ID, domain.RejectProblemInput{})
		require.NoError(t, err)

		_, err = f.svc.Resolve(context.Background(), p.ID)
		assert.ErrorIs(t, err, domain.ErrOnlyApprovedSolved)
	})
}

func TestGet_VisibilityRule(t *testing.T) {
	f := setup(t)
	p := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)

	_, err := f.svc.Get(context.Background(), p.ID, f.other)
	var aerr *domain.AuthorizationError
	assert.ErrorAs(t, err, &aerr)

	_, err = f.svc.Get(context.Background(), p.ID, nil)
	assert.ErrorAs(t, err, &aerr)

	got, err := f.svc.Get(context.Background(), p.ID, f.reporter)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.svc.Get(context.Background(), p.ID, f.admin)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), p.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), p.ID, f.other)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), uuid.New(), f.admin)
	var nerr *domain.NotFoundError
	assert.ErrorAs(t, err, &nerr)
}

func TestList_FiltersByViewer(t *testing.T) {
	f := setup(t)
	own := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
	public := f.submit(t, f.other.ID, "water", domain.SeverityLow)
	hidden := f.submit(t, f.other.ID, "water", domain.SeverityLow)
	_, err := f.svc.Approve(context.Background(), public.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)

	page, err := f.svc.List(context.Background(), f.reporter, domain.ProblemFilter{}, domain.DefaultPagination())
	require.NoError(t, err)
	ids := map[uuid.UUID]bool{}
	for _, p := range page.Data {
		ids[p.ID] = true
	}
	assert.True(t, ids[own.ID])
	assert.True(t, ids[public.ID])
	assert.False(t, ids[hidden.ID])

	page, err = f.svc.List(context.Background(), f.admin, domain.ProblemFilter{}, domain.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalItems)
}

func TestVisibilityFollowsStatusAcrossTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	approved := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
	rejected := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
	resolved := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)
	pending := f.submit(t, f.reporter.ID, "water", domain.SeverityLow)

	_, err := f.svc.Approve(ctx, approved.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, rejected.ID, f.admin.ID, domain.RejectProblemInput{})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, resolved.ID, f.admin.ID, domain.ApproveProblemInput{})
	require.NoError(t, err)
	_, err = f.svc.Resolve(ctx, resolved.ID)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{approved.ID, rejected.ID, resolved.ID, pending.ID} {
		stored, err := f.repos.Problem.GetByID(ctx, id)
		require.NoError(t, err)
		assertVisibilityMatchesStatus(t, stored)
	}
}
