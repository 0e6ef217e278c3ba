package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kaizen-ideas/internal/config"
	"kaizen-ideas/internal/repository"
	"kaizen-ideas/internal/service/auth"
	"kaizen-ideas/internal/service/credit"
	"kaizen-ideas/internal/service/email"
	"kaizen-ideas/internal/service/idea"
	"kaizen-ideas/internal/service/leaderboard"
	"kaizen-ideas/internal/service/live"
	"kaizen-ideas/internal/service/media"
	"kaizen-ideas/internal/service/notification"
	"kaizen-ideas/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Idea         idea.Service
	Credit       credit.Service
	Notification notification.Service
	Leaderboard  leaderboard.Service
	Media        media.Service
	Email        email.Service
	Hub          *live.Hub
	Relay        *live.RedisRelay
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config, log *zap.Logger) (*Services, error) {
	emailService, err := email.NewService(cfg)
	if err != nil {
		return nil, err
	}

	hub := live.NewHub(log.Named("live"))
	var broadcaster live.Broadcaster = hub
	var relay *live.RedisRelay
	if redisClient != nil {
		relay = live.NewRedisRelay(redisClient, cfg.LiveChannel, hub, log.Named("live"))
		broadcaster = relay
	}

	notificationService := notification.NewService(repos.Notification, repos.User, emailService, log.Named("notification"))
	leaderboardService := leaderboard.NewService(repos.User, repos.Idea, redisClient, cfg.LeaderboardCacheTTL, cfg.LeaderboardLimit, log.Named("leaderboard"))

	creditService := credit.NewService(repos.Idea, repos.User, notificationService, leaderboardService, log.Named("credit"))

	ideaService := idea.NewService(repos.Idea, repos.User, creditService, notificationService, leaderboardService, broadcaster, log.Named("idea"))

	authService := auth.NewService(repos.User, auth.NewRedisOTPStore(redisClient), emailService, cfg, log.Named("auth"))

	// Uploads are disabled when MinIO is unreachable at startup.
	var mediaService media.Service
	if minioClient != nil {
		mediaService = media.NewService(minioClient, cfg, log.Named("media"))
	}

	return &Services{
		Auth:         authService,
		User:         user.NewService(repos.User, leaderboardService, log.Named("user")),
		Idea:         ideaService,
		Credit:       creditService,
		Notification: notificationService,
		Leaderboard:  leaderboardService,
		Media:        mediaService,
		Email:        emailService,
		Hub:          hub,
		Relay:        relay,
	}, nil
}
