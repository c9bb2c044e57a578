package main

import (
	"github.com/veredas-labs/trilha_api/middleware"
	"github.com/veredas-labs/trilha_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.SqlService{},
		&services.RedisService{},
		&services.JWTService{},
		&middleware.AuthMiddleware{},
		&middleware.RateLimitMiddleware{},
		&services.MonitoringService{},
		&services.BadgeStorageService{},

		&services.NotificationService{},
		&services.AchievementService{},
		&services.MissionService{},
		&services.StreakService{},
		&services.ActivityService{},
		&services.SchedulerService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
