package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kaizen-ideas/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, recipientID uuid.UUID, isRead *bool, params domain.PaginationParams) (*domain.NotificationList, error) {
	args := m.Called(ctx, recipientID, isRead, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationList), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) NotifyIdeaSubmitted(ctx context.Context, idea *domain.Idea, submitter *domain.User) error {
	args := m.Called(ctx, idea, submitter)
	return args.Error(0)
}

func (m *NotificationService) NotifyStatusChanged(ctx context.Context, idea *domain.Idea, reviewerID uuid.UUID) error {
	args := m.Called(ctx, idea, reviewerID)
	return args.Error(0)
}

func (m *NotificationService) NotifyIdeaUpdated(ctx context.Context, idea *domain.Idea, editor *domain.User, fields []string) error {
	args := m.Called(ctx, idea, editor, fields)
	return args.Error(0)
}

func (m *NotificationService) NotifyCreditPointsUpdated(ctx context.Context, user *domain.User, oldPoints, newPoints int, reason string, actorID *uuid.UUID) error {
	args := m.Called(ctx, user, oldPoints, newPoints, reason, actorID)
	return args.Error(0)
}
