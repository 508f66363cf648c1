package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

type notificationRepository struct {
	db *DB
}

func (repo *notificationRepository) Create(_ context.Context, notif *domain.Notification) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, exists := repo.db.notifications[notif.ID]; exists {
		return repository.ErrDuplicate
	}
	notif.CreatedAt = repo.db.now()
	n := *notif
	repo.db.notifications[notif.ID] = &n
	return nil
}

func (repo *notificationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if n, ok := repo.db.notifications[id]; ok {
		c := *n
		return &c, nil
	}
	return nil, nil
}

func (repo *notificationRepository) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var list []domain.Notification
	for _, n := range repo.db.notifications {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		list = append(list, *n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return domain.PageOf(list, params).Data, int64(len(list)), nil
}

func (repo *notificationRepository) MarkAsRead(_ context.Context, id, userID uuid.UUID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if n, ok := repo.db.notifications[id]; ok && n.UserID == userID && !n.IsRead {
		now := repo.db.now()
		n.IsRead = true
		n.ReadAt = &now
	}
	return nil
}

func (repo *notificationRepository) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := repo.db.now()
	for _, n := range repo.db.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			readAt := now
			n.ReadAt = &readAt
		}
	}
	return nil
}

func (repo *notificationRepository) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, n := range repo.db.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
