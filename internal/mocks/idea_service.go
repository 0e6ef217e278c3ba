package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kaizen-ideas/internal/domain"
)

type IdeaService struct {
	mock.Mock
}

func (m *IdeaService) Submit(ctx context.Context, input domain.CreateIdeaInput, images []domain.IdeaImage, submitterID uuid.UUID) (*domain.Idea, error) {
	args := m.Called(ctx, input, images, submitterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaService) ChangeStatus(ctx context.Context, id uuid.UUID, input domain.UpdateIdeaStatusInput, reviewerID uuid.UUID) (*domain.Idea, error) {
	args := m.Called(ctx, id, input, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaService) Edit(ctx context.Context, id uuid.UUID, input domain.UpdateIdeaInput, editorID uuid.UUID) (*domain.Idea, error) {
	args := m.Called(ctx, id, input, editorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaService) SoftDelete(ctx context.Context, id, requesterID uuid.UUID) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *IdeaService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Idea), args.Error(1)
}

func (m *IdeaService) List(ctx context.Context, filter domain.IdeaFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Idea], error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Idea]), args.Error(1)
}

func (m *IdeaService) ListMine(ctx context.Context, userID uuid.UUID, status *domain.IdeaStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Idea], error) {
	args := m.Called(ctx, userID, status, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Idea]), args.Error(1)
}

func (m *IdeaService) Stats(ctx context.Context) (*domain.IdeaStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdeaStats), args.Error(1)
}
