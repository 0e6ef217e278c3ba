package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kaizen-ideas/internal/domain"
	"kaizen-ideas/internal/repository"
)

const (
	keyPrefix     = "leaderboard:"
	departmentKey = keyPrefix + "department"
)

type Service interface {
	Individual(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Department(ctx context.Context) ([]domain.DepartmentLeaderboardEntry, error)
	Invalidate(ctx context.Context) error
}

type service struct {
	userRepo     repository.UserRepository
	ideaRepo     repository.IdeaRepository
	redis        *redis.Client
	ttl          time.Duration
	defaultLimit int
	log          *zap.Logger
}

// NewService returns a leaderboard reader. A nil redis client disables
// caching.
func NewService(userRepo repository.UserRepository, ideaRepo repository.IdeaRepository, redis *redis.Client, ttl time.Duration, defaultLimit int, log *zap.Logger) Service {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &service{
		userRepo:     userRepo,
		ideaRepo:     ideaRepo,
		redis:        redis,
		ttl:          ttl,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

func (s *service) Individual(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > s.defaultLimit*10 {
		limit = s.defaultLimit
	}
	cacheKey := fmt.Sprintf("%sindividual:%d", keyPrefix, limit)

	var entries []domain.LeaderboardEntry
	if s.getCached(ctx, cacheKey, &entries) {
		return entries, nil
	}

	entries, err := s.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.setCached(ctx, cacheKey, entries)
	return entries, nil
}

func (s *service) Department(ctx context.Context) ([]domain.DepartmentLeaderboardEntry, error) {
	var entries []domain.DepartmentLeaderboardEntry
	if s.getCached(ctx, departmentKey, &entries) {
		return entries, nil
	}

	entries, err := s.ideaRepo.DepartmentLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.DepartmentLeaderboardEntry{}
	}
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].EmployeeCount > 0 {
			avg := float64(entries[i].TotalIdeas) / float64(entries[i].EmployeeCount)
			entries[i].AvgIdeasPerEmployee = math.Round(avg*100) / 100
		}
	}

	s.setCached(ctx, departmentKey, entries)
	return entries, nil
}

// Invalidate drops every cached leaderboard.
func (s *service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}

	var keys []string
	iter := s.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.redis.Del(ctx, keys...).Err()
}

func (s *service) getCached(ctx context.Context, key string, dst interface{}) bool {
	if s.redis == nil {
		return false
	}
	cached, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Debug("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (s *service) setCached(ctx context.Context, key string, v interface{}) {
	if s.redis == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.redis.Set(ctx, key, data, s.ttl).Err()
	}
}
