package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"kaizen-ideas/internal/domain"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendOTP(ctx context.Context, toEmail, name, code string, expiresIn time.Duration) error {
	args := m.Called(ctx, toEmail, name, code, expiresIn)
	return args.Error(0)
}

func (m *EmailService) SendIdeaStatusEmail(ctx context.Context, toEmail, name string, idea *domain.Idea) error {
	args := m.Called(ctx, toEmail, name, idea)
	return args.Error(0)
}
