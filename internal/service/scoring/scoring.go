// Package scoring computes reward points and badge eligibility. Every function
// is pure: it reads counters and returns deltas, and the caller applies them
// exactly once.
package scoring

import (
	"slices"

	"campus-volunteer/internal/domain"
)

const (
	approvalPoints        = 10
	highSeverityBonus     = 5
	criticalSeverityBonus = 10
	resolutionBonus       = 5
	firstReportBonus      = 20
)

const (
	BadgeFirstReport    = "First Report"
	BadgeCommunityHero  = "Community Hero"
	BadgeProblemSolver  = "Problem Solver"
	BadgeChangeMaker    = "Change Maker"
	BadgeActiveReporter = "Active Reporter"
)

type threshold struct {
	badge    string
	approved int
}

var approvedThresholds = []threshold{
	{badge: BadgeCommunityHero, approved: 5},
	{badge: BadgeProblemSolver, approved: 10},
	{badge: BadgeChangeMaker, approved: 20},
}

const activeReporterMonthlyCount = 3

func FirstReportBonus() int {
	return firstReportBonus
}

// ApprovalPoints is the base approval bonus plus the severity bonus.
func ApprovalPoints(severity domain.Severity) int {
	switch severity {
	case domain.SeverityHigh:
		return approvalPoints + highSeverityBonus
	case domain.SeverityCritical:
		return approvalPoints + criticalSeverityBonus
	default:
		return approvalPoints
	}
}

func ResolutionBonus() int {
	return resolutionBonus
}

// EvaluateBadges returns the badges the counters qualify for that are not
// already in existing. The result is ordered by threshold, not by input order.
func EvaluateBadges(counters domain.RewardCounters, existing []string, monthlySubmissions int) []string {
	var earned []string
	for _, t := range approvedThresholds {
		if counters.ProblemsApproved >= t.approved && !slices.Contains(existing, t.badge) {
			earned = append(earned, t.badge)
		}
	}
	if monthlySubmissions >= activeReporterMonthlyCount && !slices.Contains(existing, BadgeActiveReporter) {
		earned = append(earned, BadgeActiveReporter)
	}
	return earned
}

// SubmissionDelta is the reporter's change for a new report. The first-report
// bonus is granted only when this is the first report and the badge is not
// already held, so a retried submission cannot award it twice.
func SubmissionDelta(reporter domain.RewardCounters, existing []string) domain.RewardDelta {
	delta := domain.RewardDelta{ProblemsReported: 1}
	if reporter.ProblemsReported == 0 && !slices.Contains(existing, BadgeFirstReport) {
		delta.RewardPoints = FirstReportBonus()
		delta.Badges = []string{BadgeFirstReport}
	}
	return delta
}

// ApprovalDelta credits the reporter for an approved problem and evaluates
// badges against the counters as they will be after the increment.
func ApprovalDelta(severity domain.Severity, reporter domain.RewardCounters, existing []string, monthlySubmissions int) domain.RewardDelta {
	award := ApprovalPoints(severity)
	after := reporter
	after.ProblemsApproved++
	after.RewardPoints += award
	after.ReportingScore += award

	return domain.RewardDelta{
		ProblemsApproved: 1,
		RewardPoints:     award,
		ReportingScore:   award,
		Badges:           EvaluateBadges(after, existing, monthlySubmissions),
	}
}

func ResolutionDelta() domain.RewardDelta {
	return domain.RewardDelta{RewardPoints: ResolutionBonus()}
}
