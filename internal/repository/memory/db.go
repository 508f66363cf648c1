// Package memory is an in-process implementation of the repository contracts.
// One lock guards every table so multi-entity writes are atomic, matching the
// transactional behaviour of the PostgreSQL repositories.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type DB struct {
	mutex          sync.RWMutex
	users          map[uuid.UUID]*domain.User
	problems       map[uuid.UUID]*domain.Problem
	events         map[uuid.UUID]*domain.Event
	participations map[uuid.UUID]*domain.Participation
	notifications  map[uuid.UUID]*domain.Notification
	now            func() time.Time
}

func Open() *DB {
	return &DB{
		users:          make(map[uuid.UUID]*domain.User),
		problems:       make(map[uuid.UUID]*domain.Problem),
		events:         make(map[uuid.UUID]*domain.Event),
		participations: make(map[uuid.UUID]*domain.Participation),
		notifications:  make(map[uuid.UUID]*domain.Notification),
		now:            time.Now,
	}
}

// SetClock replaces the source of record timestamps.
func (db *DB) SetClock(clock domain.Clock) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.now = clock.Now
}

// NewRepositories returns every repository backed by the same DB.
func NewRepositories(db *DB) *repository.Repositories {
	return &repository.Repositories{
		User:          &userRepository{db: db},
		Problem:       &problemRepository{db: db},
		Event:         &eventRepository{db: db},
		Participation: &participationRepository{db: db},
		Notification:  &notificationRepository{db: db},
	}
}

// applyReward must be called with the write lock held, which is what makes
// rule see the counters the delta is added to.
func (db *DB) applyReward(userID uuid.UUID, rule domain.RewardRule) (*domain.RewardOutcome, error) {
	if rule == nil {
		return nil, nil
	}
	u, ok := db.users[userID]
	if !ok {
		return nil, domain.NewNotFoundError("user", userID)
	}
	delta := rule(copyUser(u))
	if !delta.IsZero() {
		u.Apply(delta)
		u.UpdatedAt = db.now()
	}
	return &domain.RewardOutcome{Delta: delta, User: copyUser(u)}, nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Badges = append([]string(nil), u.Badges...)
	return &c
}

func copyProblem(p *domain.Problem) *domain.Problem {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	return &c
}
