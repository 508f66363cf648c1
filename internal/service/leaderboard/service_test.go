package leaderboard_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/repository/memory"
	"campus-volunteer/internal/service/leaderboard"
)

func seed(t *testing.T, repos *repository.Repositories, name string, points int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{ID: uuid.New(), Email: name + "@campus.test", FullName: name, Role: "student", IsActive: true}
	require.NoError(t, repos.User.Create(ctx, u))
	if points > 0 {
		// Submitting a problem is the only public way to earn points in the
		// memory store, so credit through a submission delta.
		p := &domain.Problem{ID: uuid.New(), ReportedBy: u.ID, Title: "t", Description: "d",
			Category: "safety", Severity: domain.SeverityLow, Status: domain.ProblemPending, Visibility: domain.VisibilityPrivate}
		_, err := repos.Problem.Create(ctx, p, domain.FixedReward(domain.RewardDelta{RewardPoints: points}))
		require.NoError(t, err)
	}
	return u.ID
}

func TestTop(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.Open())
	seed(t, repos, "low", 5)
	high := seed(t, repos, "high", 30)
	seed(t, repos, "mid", 12)

	svc := leaderboard.NewService(repos.User, nil)

	entries, err := svc.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, high, entries[0].UserID)
	assert.Equal(t, 30, entries[0].RewardPoints)
	assert.Equal(t, "mid", entries[1].FullName)

	entries, err = svc.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTopIsCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repos := memory.NewRepositories(memory.Open())
	seed(t, repos, "first", 10)
	svc := leaderboard.NewService(repos.User, client)

	entries, err := svc.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, mr.Exists("leaderboard:top:5"))

	seed(t, repos, "second", 50)

	cached, err := svc.Top(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, cached, 1, "cached ranking served until invalidated")

	svc.Invalidate(ctx)
	assert.False(t, mr.Exists("leaderboard:top:5"))

	fresh, err := svc.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "second", fresh[0].FullName)
}

func TestTopClampsLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := leaderboard.NewService(memory.NewRepositories(memory.Open()).User, client)
	entries, err := svc.Top(context.Background(), 1000)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.True(t, mr.Exists("leaderboard:top:100"))
}
