package handler

import (
	"go.uber.org/zap"

	"kaizen-ideas/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Idea         *IdeaHandler
	User         *UserHandler
	Notification *NotificationHandler
	Live         *LiveHandler
}

func NewHandlers(services *service.Services, log *zap.Logger) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Idea:         NewIdeaHandler(services.Idea, services.Media),
		User:         NewUserHandler(services.User, services.Credit, services.Leaderboard),
		Notification: NewNotificationHandler(services.Notification),
		Live:         NewLiveHandler(services.Hub, log.Named("ws")),
	}
}
