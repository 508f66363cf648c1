package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/repository/memory"
)

func seedUser(t *testing.T, repos *repository.Repositories) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@campus.test", FullName: "Student", Role: "student", IsActive: true}
	require.NoError(t, repos.User.Create(context.Background(), u))
	return u
}

func TestProblemApprove_ConcurrentOnlyOneWins(t *testing.T) {
	repos := memory.NewRepositories(memory.Open())
	ctx := context.Background()
	reporter := seedUser(t, repos)

	p := &domain.Problem{ID: uuid.New(), Title: "Leak", Status: domain.ProblemPending, Visibility: domain.VisibilityPrivate, ReportedBy: reporter.ID}
	_, err := repos.Problem.Create(ctx, p, domain.FixedReward(domain.RewardDelta{ProblemsReported: 1}))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eventID := uuid.New()
			points := 10
			_, err := repos.Problem.Approve(ctx, domain.ProblemReview{
				ProblemID:     p.ID,
				Status:        domain.ProblemApproved,
				Visibility:    domain.VisibilityPublic,
				ReviewedBy:    uuid.New(),
				ReviewedAt:    time.Now(),
				EventID:       &eventID,
				PointsAwarded: &points,
			}, &domain.Event{ID: eventID, ProblemID: &p.ID, IsProblemDerived: true}, reporter.ID, domain.FixedReward(domain.RewardDelta{ProblemsApproved: 1, RewardPoints: 10}))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if err == repository.ErrStatusConflict {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, conflicts)

	u, err := repos.User.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.ProblemsApproved)
	assert.Equal(t, 10, u.RewardPoints)
}

func TestParticipation_CapacityAndDuplicate(t *testing.T) {
	repos := memory.NewRepositories(memory.Open())
	ctx := context.Background()
	eventID := uuid.New()
	studentA, studentB := uuid.New(), uuid.New()

	first := &domain.Participation{ID: uuid.New(), EventID: eventID, StudentID: studentA, Status: domain.ParticipationPending}
	require.NoError(t, repos.Participation.CreateWithinCapacity(ctx, first, 1))

	dup := &domain.Participation{ID: uuid.New(), EventID: eventID, StudentID: studentA, Status: domain.ParticipationPending}
	assert.ErrorIs(t, repos.Participation.CreateWithinCapacity(ctx, dup, 1), repository.ErrDuplicate)

	full := &domain.Participation{ID: uuid.New(), EventID: eventID, StudentID: studentB, Status: domain.ParticipationPending}
	assert.ErrorIs(t, repos.Participation.CreateWithinCapacity(ctx, full, 1), repository.ErrCapacityReached)

	count, err := repos.Participation.CountActiveByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRewardDelta_BadgesNotDuplicated(t *testing.T) {
	repos := memory.NewRepositories(memory.Open())
	ctx := context.Background()
	reporter := seedUser(t, repos)

	for i := 0; i < 2; i++ {
		p := &domain.Problem{ID: uuid.New(), Status: domain.ProblemPending, ReportedBy: reporter.ID}
		_, err := repos.Problem.Create(ctx, p, domain.FixedReward(domain.RewardDelta{ProblemsReported: 1, Badges: []string{"First Report"}}))
		require.NoError(t, err)
	}

	u, err := repos.User.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.ProblemsReported)
	assert.Equal(t, []string{"First Report"}, []string(u.Badges))
}

func TestRewardRule_SeesCountersOfEarlierWrites(t *testing.T) {
	repos := memory.NewRepositories(memory.Open())
	ctx := context.Background()
	reporter := seedUser(t, repos)

	// Credit a bonus only while the user has no reports, the way a
	// first-report rule does.
	rule := func(u *domain.User) domain.RewardDelta {
		d := domain.RewardDelta{ProblemsReported: 1}
		if u.ProblemsReported == 0 {
			d.RewardPoints = 20
		}
		return d
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := &domain.Problem{ID: uuid.New(), Status: domain.ProblemPending, ReportedBy: reporter.ID}
			_, err := repos.Problem.Create(ctx, p, rule)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := repos.User.GetByID(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, u.ProblemsReported)
	assert.Equal(t, 20, u.RewardPoints)
}

func TestProblemCreate_UnknownReporter(t *testing.T) {
	repos := memory.NewRepositories(memory.Open())
	p := &domain.Problem{ID: uuid.New(), Status: domain.ProblemPending, ReportedBy: uuid.New()}

	_, err := repos.Problem.Create(context.Background(), p, domain.FixedReward(domain.RewardDelta{ProblemsReported: 1}))
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestNotification_MarkAsReadIsOwnerScoped(t *testing.T) {
	repos := memory.NewRepositories(memory.Open())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	n := &domain.Notification{ID: uuid.New(), UserID: owner, Type: domain.NotifNewEvent, Title: "t", Message: "m"}
	require.NoError(t, repos.Notification.Create(ctx, n))

	require.NoError(t, repos.Notification.MarkAsRead(ctx, n.ID, other))
	count, _ := repos.Notification.CountUnread(ctx, owner)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repos.Notification.MarkAsRead(ctx, n.ID, owner))
	count, _ = repos.Notification.CountUnread(ctx, owner)
	assert.Zero(t, count)
}
