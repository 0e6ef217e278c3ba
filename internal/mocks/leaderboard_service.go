package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kaizen-ideas/internal/domain"
)

type LeaderboardService struct {
	mock.Mock
}

func (m *LeaderboardService) Individual(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *LeaderboardService) Department(ctx context.Context) ([]domain.DepartmentLeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepartmentLeaderboardEntry), args.Error(1)
}

func (m *LeaderboardService) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
