package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/service/scoring"
)

func TestApprovalPoints(t *testing.T) {
	cases := map[domain.Severity]int{
		domain.SeverityLow:      10,
		domain.SeverityMedium:   10,
		domain.SeverityHigh:     15,
		domain.SeverityCritical: 20,
		"":                      10,
	}
	for severity, want := range cases {
		assert.Equal(t, want, scoring.ApprovalPoints(severity), "severity %q", severity)
	}
}

func TestFixedBonuses(t *testing.T) {
	assert.Equal(t, 20, scoring.FirstReportBonus())
	assert.Equal(t, 5, scoring.ResolutionBonus())
}

func TestEvaluateBadges(t *testing.T) {
	t.Run("Below Every Threshold", func(t *testing.T) {
		got := scoring.EvaluateBadges(domain.RewardCounters{ProblemsApproved: 4}, nil, 2)
		assert.Empty(t, got)
	})

	t.Run("Community Hero At Five", func(t *testing.T) {
		got := scoring.EvaluateBadges(domain.RewardCounters{ProblemsApproved: 5}, nil, 0)
		assert.Equal(t, []string{scoring.BadgeCommunityHero}, got)
	})

	t.Run("All Approved Thresholds", func(t *testing.T) {
		got := scoring.EvaluateBadges(domain.RewardCounters{ProblemsApproved: 20}, nil, 0)
		assert.Equal(t, []string{scoring.BadgeCommunityHero, scoring.BadgeProblemSolver, scoring.BadgeChangeMaker}, got)
	})

	t.Run("Active Reporter", func(t *testing.T) {
		got := scoring.EvaluateBadges(domain.RewardCounters{}, nil, 3)
		assert.Equal(t, []string{scoring.BadgeActiveReporter}, got)
	})

	t.Run("Never Returns Held Badges", func(t *testing.T) {
		existing := []string{scoring.BadgeCommunityHero, scoring.BadgeActiveReporter}
		got := scoring.EvaluateBadges(domain.RewardCounters{ProblemsApproved: 10}, existing, 5)
		assert.Equal(t, []string{scoring.BadgeProblemSolver}, got)
	})

	t.Run("Pure And Order Independent", func(t *testing.T) {
		counters := domain.RewardCounters{ProblemsApproved: 12}
		a := scoring.EvaluateBadges(counters, []string{scoring.BadgeFirstReport, scoring.BadgeActiveReporter}, 4)
		b := scoring.EvaluateBadges(counters, []string{scoring.BadgeActiveReporter, scoring.BadgeFirstReport}, 4)
		c := scoring.EvaluateBadges(counters, []string{scoring.BadgeActiveReporter, scoring.BadgeFirstReport}, 4)
		assert.Equal(t, a, b)
		assert.Equal(t, b, c)
	})
}

func TestSubmissionDelta(t *testing.T) {
	t.Run("First Report", func(t *testing.T) {
		d := scoring.SubmissionDelta(domain.RewardCounters{}, nil)
		assert.Equal(t, 1, d.ProblemsReported)
		assert.Equal(t, 20, d.RewardPoints)
		assert.Equal(t, []string{scoring.BadgeFirstReport}, d.Badges)
	})

	t.Run("Badge Already Held", func(t *testing.T) {
		d := scoring.SubmissionDelta(domain.RewardCounters{}, []string{scoring.BadgeFirstReport})
		assert.Equal(t, 1, d.ProblemsReported)
		assert.Zero(t, d.RewardPoints)
		assert.Empty(t, d.Badges)
	})

	t.Run("Later Report", func(t *testing.T) {
		d := scoring.SubmissionDelta(domain.RewardCounters{ProblemsReported: 3}, nil)
		assert.Zero(t, d.RewardPoints)
		assert.Empty(t, d.Badges)
	})
}

func TestApprovalDelta(t *testing.T) {
	t.Run("Critical Severity", func(t *testing.T) {
		d := scoring.ApprovalDelta(domain.SeverityCritical, domain.RewardCounters{}, nil, 1)
		assert.Equal(t, 20, d.RewardPoints)
		assert.Equal(t, 20, d.ReportingScore)
		assert.Equal(t, 1, d.ProblemsApproved)
		assert.Empty(t, d.Badges)
	})

	t.Run("Fifth Approval Earns Community Hero", func(t *testing.T) {
		d := scoring.ApprovalDelta(domain.SeverityLow, domain.RewardCounters{ProblemsApproved: 4}, nil, 0)
		assert.Equal(t, []string{scoring.BadgeCommunityHero}, d.Badges)
	})

	t.Run("Sixth Approval Adds Nothing", func(t *testing.T) {
		d := scoring.ApprovalDelta(domain.SeverityLow, domain.RewardCounters{ProblemsApproved: 5}, []string{scoring.BadgeCommunityHero}, 0)
		assert.Empty(t, d.Badges)
	})
}

func TestResolutionDelta(t *testing.T) {
	d := scoring.ResolutionDelta()
	assert.Equal(t, domain.RewardDelta{RewardPoints: 5}, d)
}
