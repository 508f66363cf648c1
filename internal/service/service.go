package service

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-volunteer/internal/config"
	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/pkg/category"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/service/auth"
	"campus-volunteer/internal/service/email"
	"campus-volunteer/internal/service/leaderboard"
	"campus-volunteer/internal/service/live"
	"campus-volunteer/internal/service/media"
	"campus-volunteer/internal/service/notification"
	"campus-volunteer/internal/service/participation"
	"campus-volunteer/internal/service/problem"
	"campus-volunteer/internal/service/reminder"
)

type Services struct {
	Auth          auth.Service
	Problem       problem.Service
	Participation participation.Service
	Notification  notification.Service
	Leaderboard   leaderboard.Service
	Media         media.Service
	Reminder      reminder.Service
	// Live is nil when no redis client is configured.
	Live live.Channel
}

// NewServices wires every service. redis and minioClient are optional: a nil
// redis disables caching and the live channel, a nil minioClient disables
// image uploads.
func NewServices(
	repos *repository.Repositories,
	redis *redis.Client,
	minioClient *minio.Client,
	cfg *config.Config,
	clock domain.Clock,
	logger *zap.Logger,
) (*Services, error) {
	categories, err := category.Load(cfg.CategoryMapFile)
	if err != nil {
		return nil, fmt.Errorf("load category map: %w", err)
	}

	var mailer email.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = email.NewResendMailer(cfg)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will be logged instead of sent")
		mailer = email.NewConsoleMailer(logger)
	}

	var liveTransport live.Channel
	if redis != nil && cfg.LiveChannelEnabled {
		liveTransport = live.NewRedisChannel(redis)
	}

	fanout := notification.NewFanout(logger,
		notification.NewEmailChannel(mailer, notification.EmailOptions{
			AppName:   cfg.AppName,
			BaseURL:   cfg.Domain,
			BatchSize: cfg.NotifyBatchSize,
			Throttle:  cfg.NotifyEmailThrottle,
		}, logger),
		notification.NewLiveChannel(liveTransport, logger),
		notification.NewInboxChannel(repos.Notification, logger),
	)
	notificationService := notification.NewService(repos.Notification, repos.User, fanout, logger)

	leaderboardService := leaderboard.NewService(repos.User, redis)

	var store media.ObjectStore
	if minioClient != nil {
		store = minioClient
	}

	return &Services{
		Auth:          auth.NewService(repos.User, cfg, clock),
		Problem:       problem.NewService(repos, categories, notificationService, leaderboardService, clock, logger),
		Participation: participation.NewService(repos, notificationService, clock, logger),
		Notification:  notificationService,
		Leaderboard:   leaderboardService,
		Media:         media.NewService(store, cfg, clock),
		Reminder:      reminder.NewService(repos, notificationService, clock, cfg.ReminderInterval, cfg.ReminderLeadTime, logger),
		Live:          liveTransport,
	}, nil
}
