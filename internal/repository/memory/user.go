package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type userRepository struct {
	db *DB
}

func (repo *userRepository) Create(_ context.Context, user *domain.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := repo.db.now()
	user.CreatedAt, user.UpdatedAt = now, now
	repo.db.users[user.ID] = copyUser(user)
	return nil
}

func (repo *userRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (repo *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.db.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (repo *userRepository) ListActive(_ context.Context) ([]domain.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var users []domain.User
	for _, u := range repo.db.users {
		if u.IsActive {
			users = append(users, *copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (repo *userRepository) TopByRewardPoints(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var entries []domain.LeaderboardEntry
	for _, u := range repo.db.users {
		if !u.IsActive {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:       u.ID,
			FullName:     u.FullName,
			RewardPoints: u.RewardPoints,
			Badges:       append([]string(nil), u.Badges...),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RewardPoints != entries[j].RewardPoints {
			return entries[i].RewardPoints > entries[j].RewardPoints
		}
		return entries[i].FullName < entries[j].FullName
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
