package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	cacheTTL     = 5 * time.Minute
	cachePrefix  = "leaderboard:top:"
)

type Service interface {
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	// Invalidate drops cached rankings after reward points change.
	Invalidate(ctx context.Context)
}

type service struct {
	userRepo repository.UserRepository
	redis    *redis.Client
}

// NewService caches rankings in redis when a client is given; a nil client
// reads straight from the store.
func NewService(userRepo repository.UserRepository, redis *redis.Client) Service {
	return &service{
		userRepo: userRepo,
		redis:    redis,
	}
}

func (s *service) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	cacheKey := fmt.Sprintf("%s%d", cachePrefix, limit)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []domain.LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.userRepo.TopByRewardPoints(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}

	if s.redis != nil {
		if entriesJSON, err := json.Marshal(entries); err == nil {
			_ = s.redis.Set(ctx, cacheKey, entriesJSON, cacheTTL).Err()
		}
	}

	return entries, nil
}

func (s *service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	iter := s.redis.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = s.redis.Del(ctx, iter.Val()).Err()
	}
}
