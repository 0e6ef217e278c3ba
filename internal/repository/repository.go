package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Idea         IdeaRepository
	User         UserRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Idea:         NewIdeaRepository(db),
		User:         NewUserRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
