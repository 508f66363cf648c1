package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type participationRepository struct {
	db *DB
}

func isActive(status domain.ParticipationStatus) bool {
	switch status {
	case domain.ParticipationPending, domain.ParticipationApproved,
		domain.ParticipationAttended, domain.ParticipationCompleted:
		return true
	}
	return false
}

func (repo *participationRepository) countActive(eventID uuid.UUID) int {
	n := 0
	for _, p := range repo.db.participations {
		if p.EventID == eventID && isActive(p.Status) {
			n++
		}
	}
	return n
}

func (repo *participationRepository) CreateWithinCapacity(_ context.Context, p *domain.Participation, capacity int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.participations {
		if existing.EventID == p.EventID && existing.StudentID == p.StudentID {
			return repository.ErrDuplicate
		}
	}
	if capacity > 0 && repo.countActive(p.EventID) >= capacity {
		return repository.ErrCapacityReached
	}

	now := repo.db.now()
	p.CreatedAt, p.UpdatedAt = now, now
	c := *p
	repo.db.participations[p.ID] = &c
	return nil
}

func (repo *participationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Participation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.participations[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (repo *participationRepository) GetByEventAndStudent(_ context.Context, eventID, studentID uuid.UUID) (*domain.Participation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.participations {
		if p.EventID == eventID && p.StudentID == studentID {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (repo *participationRepository) CountActiveByEvent(_ context.Context, eventID uuid.UUID) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return int64(repo.countActive(eventID)), nil
}

func (repo *participationRepository) ListByEvent(_ context.Context, eventID uuid.UUID, status domain.ParticipationStatus) ([]domain.Participation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var list []domain.Participation
	for _, p := range repo.db.participations {
		if p.EventID == eventID && (status == "" || p.Status == status) {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (repo *participationRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.ParticipationStatus, reviewedBy uuid.UUID, reviewedAt time.Time, reason *string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.participations[id]
	if !ok {
		return domain.NewNotFoundError("participation", id)
	}
	if p.Status != from {
		return repository.ErrStatusConflict
	}

	p.Status = to
	p.ReviewedBy = &reviewedBy
	p.ReviewedAt = &reviewedAt
	p.RejectReason = reason
	p.UpdatedAt = repo.db.now()
	return nil
}

func (repo *participationRepository) SetAttendance(_ context.Context, c domain.AttendanceChange) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.participations[c.ParticipationID]
	if !ok {
		return 0, domain.NewNotFoundError("participation", c.ParticipationID)
	}
	if p.Status != c.FromStatus || p.Attended == c.Attended {
		return 0, repository.ErrStatusConflict
	}
	u, ok := repo.db.users[c.StudentID]
	if !ok {
		return 0, domain.NewNotFoundError("user", c.StudentID)
	}

	now := repo.db.now()
	p.Status = c.ToStatus
	p.Attended = c.Attended
	p.VolunteerHours = c.Hours
	p.UpdatedAt = now

	u.TotalVolunteerHours += c.HoursDelta
	if u.TotalVolunteerHours < 0 {
		u.TotalVolunteerHours = 0
	}
	u.UpdatedAt = now
	return u.TotalVolunteerHours, nil
}
