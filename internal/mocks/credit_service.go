package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kaizen-ideas/internal/domain"
)

type CreditService struct {
	mock.Mock
}

func (m *CreditService) Recalculate(ctx context.Context, userID uuid.UUID, reason string, actorID *uuid.UUID) (*domain.RecalculationResult, error) {
	args := m.Called(ctx, userID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecalculationResult), args.Error(1)
}

func (m *CreditService) RecalculateAll(ctx context.Context, actorID *uuid.UUID) (*domain.RecalculationSummary, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecalculationSummary), args.Error(1)
}
