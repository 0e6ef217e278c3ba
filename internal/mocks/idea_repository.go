package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kaizen-ideas/internal/domain"
)

type IdeaRepository struct {
	mock.Mock
}

func (m *IdeaRepository) Create(ctx context.Context, idea *domain.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *IdeaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaRepository) ListActiveBySubmitter(ctx context.Context, userID uuid.UUID) ([]domain.Idea, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Idea), args.Error(1)
}

func (m *IdeaRepository) UpdateReview(ctx context.Context, idea *domain.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *IdeaRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, input domain.UpdateIdeaInput) (*domain.Idea, error) {
	args := m.Called(ctx, id, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaRepository) SoftDeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Idea, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaRepository) List(ctx context.Context, filter domain.IdeaFilter, params domain.PaginationParams) ([]domain.Idea, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Idea), args.Get(1).(int64), args.Error(2)
}

func (m *IdeaRepository) Stats(ctx context.Context) (*domain.IdeaStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdeaStats), args.Error(1)
}

func (m *IdeaRepository) DepartmentLeaderboard(ctx context.Context) ([]domain.DepartmentLeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepartmentLeaderboardEntry), args.Error(1)
}
