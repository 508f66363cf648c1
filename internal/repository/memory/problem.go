package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type problemRepository struct {
	db *DB
}

func (repo *problemRepository) Create(_ context.Context, p *domain.Problem, reward domain.RewardRule) (*domain.RewardOutcome, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[p.ReportedBy]; !ok && reward != nil {
		return nil, domain.NewNotFoundError("user", p.ReportedBy)
	}
	if _, exists := repo.db.problems[p.ID]; exists {
		return nil, repository.ErrDuplicate
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = repo.db.now()
	}
	p.UpdatedAt = p.CreatedAt
	repo.db.problems[p.ID] = copyProblem(p)
	return repo.db.applyReward(p.ReportedBy, reward)
}

func (repo *problemRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Problem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.problems[id]; ok {
		return copyProblem(p), nil
	}
	return nil, nil
}

func (repo *problemRepository) List(_ context.Context, filter domain.ProblemFilter, params domain.PaginationParams) ([]domain.Problem, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var matched []domain.Problem
	for _, p := range repo.db.problems {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		isPublic := p.Visibility == domain.VisibilityPublic && p.Status == domain.ProblemApproved
		isOwn := filter.ReportedBy != nil && p.ReportedBy == *filter.ReportedBy
		switch {
		case filter.PublicOnly && filter.ReportedBy != nil:
			if !isPublic && !isOwn {
				continue
			}
		case filter.PublicOnly:
			if !isPublic {
				continue
			}
		case filter.ReportedBy != nil:
			if !isOwn {
				continue
			}
		}
		matched = append(matched, *copyProblem(p))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return domain.PageOf(matched, params).Data, int64(len(matched)), nil
}

func (repo *problemRepository) CountByReporterSince(_ context.Context, reporterID uuid.UUID, since time.Time) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, p := range repo.db.problems {
		if p.ReportedBy == reporterID && !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo *problemRepository) Approve(_ context.Context, review domain.ProblemReview, event *domain.Event, reporterID uuid.UUID, reward domain.RewardRule) (*domain.RewardOutcome, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.problems[review.ProblemID]
	if !ok {
		return nil, domain.NewNotFoundError("problem", review.ProblemID)
	}
	if p.Status != domain.ProblemPending {
		return nil, repository.ErrStatusConflict
	}
	if _, ok := repo.db.users[reporterID]; !ok && reward != nil {
		return nil, domain.NewNotFoundError("user", reporterID)
	}

	now := repo.db.now()
	ev := *event
	ev.CreatedAt, ev.UpdatedAt = now, now
	repo.db.events[ev.ID] = &ev
	event.CreatedAt, event.UpdatedAt = now, now

	p.Status = review.Status
	p.Visibility = review.Visibility
	p.ReviewedBy = &review.ReviewedBy
	reviewedAt := review.ReviewedAt
	p.ReviewedAt = &reviewedAt
	p.EventID = review.EventID
	if p.PointsAwarded == nil && review.PointsAwarded != nil {
		points := *review.PointsAwarded
		p.PointsAwarded = &points
	}
	p.UpdatedAt = now

	return repo.db.applyReward(reporterID, reward)
}

func (repo *problemRepository) Reject(_ context.Context, review domain.ProblemReview) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.problems[review.ProblemID]
	if !ok {
		return domain.NewNotFoundError("problem", review.ProblemID)
	}
	if p.Status != domain.ProblemPending {
		return repository.ErrStatusConflict
	}

	p.Status = review.Status
	p.Visibility = review.Visibility
	p.ReviewedBy = &review.ReviewedBy
	reviewedAt := review.ReviewedAt
	p.ReviewedAt = &reviewedAt
	p.ReviewFeedback = review.Feedback
	p.UpdatedAt = repo.db.now()
	return nil
}

func (repo *problemRepository) Resolve(_ context.Context, id uuid.UUID, resolvedAt time.Time, reporterID uuid.UUID, reward domain.RewardRule) (*domain.RewardOutcome, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.problems[id]
	if !ok {
		return nil, domain.NewNotFoundError("problem", id)
	}
	if p.Status != domain.ProblemApproved {
		return nil, repository.ErrStatusConflict
	}
	if _, ok := repo.db.users[reporterID]; !ok && reward != nil {
		return nil, domain.NewNotFoundError("user", reporterID)
	}

	p.Status = domain.ProblemResolved
	p.Visibility = domain.VisibilityPrivate
	p.ResolvedAt = &resolvedAt
	p.UpdatedAt = repo.db.now()
	return repo.db.applyReward(reporterID, reward)
}
