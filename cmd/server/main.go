package main

import (
	"go.uber.org/zap"

	"studyflow/config"
	"studyflow/internal/api"
	"studyflow/internal/cache"
	"studyflow/internal/repository"
	"studyflow/internal/service"
	"studyflow/pkg/db"
	"studyflow/pkg/logger"
	"studyflow/pkg/mq"
	"studyflow/pkg/redis"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis-backed standings cache
	rdb := redis.NewClient(cfg.Redis)
	standingsCache := cache.New(rdb, log, 0)

	// 4. Init RabbitMQ publisher for invite emails. The side channel is
	// optional: with no broker the API still runs, invites just carry
	// the link only.
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("MQ publisher unavailable, invite emails disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// 5. Init repositories
	userRepo := repository.NewUserRepository(dbConn)
	subjectRepo := repository.NewSubjectRepository(dbConn)
	sessionRepo := repository.NewSessionRepository(dbConn)
	habitRepo := repository.NewHabitRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn)
	leaderboardRepo := repository.NewLeaderboardRepository(dbConn, log)
	invitationRepo := repository.NewInvitationRepository(dbConn)

	// 6. Init services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	subjectService := service.NewSubjectService(subjectRepo)
	studyService := service.NewStudyService(sessionRepo)
	habitService := service.NewHabitService(habitRepo)
	taskService := service.NewTaskService(taskRepo)

	var events service.EventPublisher
	if publisher != nil {
		events = publisher
	}
	leaderboardService := service.NewLeaderboardService(
		leaderboardRepo,
		invitationRepo,
		sessionRepo,
		habitRepo,
		userRepo,
		standingsCache,
		events,
		cfg.App.Origin,
		log,
	)

	// 7. Init handlers
	authHandler := api.NewAuthHandler(authService)
	subjectHandler := api.NewSubjectHandler(subjectService)
	sessionHandler := api.NewSessionHandler(studyService)
	habitHandler := api.NewHabitHandler(habitService)
	taskHandler := api.NewTaskHandler(taskService)
	leaderboardHandler := api.NewLeaderboardHandler(leaderboardService)
	invitationHandler := api.NewInvitationHandler(leaderboardService)

	// 8. Init router
	router := api.NewRouter(
		authHandler,
		subjectHandler,
		sessionHandler,
		habitHandler,
		taskHandler,
		leaderboardHandler,
		invitationHandler,
		cfg.JWT.Secret,
	)

	// 9. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
