package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type eventRepository struct {
	db *DB
}

func (repo *eventRepository) Create(_ context.Context, e *domain.Event) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, exists := repo.db.events[e.ID]; exists {
		return repository.ErrDuplicate
	}
	now := repo.db.now()
	e.CreatedAt, e.UpdatedAt = now, now
	ev := *e
	repo.db.events[e.ID] = &ev
	return nil
}

func (repo *eventRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.events[id]; ok {
		ev := *e
		return &ev, nil
	}
	return nil, nil
}

func (repo *eventRepository) ListStartingBetween(_ context.Context, from, to time.Time) ([]domain.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var events []domain.Event
	for _, e := range repo.db.events {
		if e.Status == domain.EventUpcoming && !e.StartAt.Before(from) && e.StartAt.Before(to) {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartAt.Before(events[j].StartAt) })
	return events, nil
}
