package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	"github.com/veredas-labs/trilha_api/docs"
	"github.com/veredas-labs/trilha_api/services/handlers"
	"github.com/veredas-labs/trilha_api/shared"
)

// authProvider is satisfied by the auth middleware service; the lookup
// stays interface-typed to keep the middleware package out of this one.
type authProvider interface {
	RequiredAuth() fiber.Handler
	RequireAdmin() fiber.Handler
}

type rateLimitProvider interface {
	IPRateLimit() fiber.Handler
	UserRateLimit(endpointType string) fiber.Handler
}

type HttpService struct {
	context.DefaultService

	activitySvc     *ActivityService
	streakSvc       *StreakService
	missionSvc      *MissionService
	achievementSvc  *AchievementService
	notificationSvc *NotificationService
	badgeSvc        *BadgeStorageService
	monitoringSvc   *MonitoringService
	auth            authProvider
	rateLimiter     rateLimitProvider

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.activitySvc = svc.Service(ACTIVITY_SVC).(*ActivityService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	svc.missionSvc = svc.Service(MISSION_SVC).(*MissionService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.notificationSvc = svc.Service(NOTIFICATION_SVC).(*NotificationService)
	svc.badgeSvc = svc.Service(BADGE_STORAGE_SVC).(*BadgeStorageService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	auth, ok := svc.Service("auth").(authProvider)
	if !ok {
		return errors.New("auth middleware service not registered")
	}
	svc.auth = auth

	rateLimiter, ok := svc.Service("rate_limit").(rateLimitProvider)
	if !ok {
		return errors.New("rate limit middleware service not registered")
	}
	svc.rateLimiter = rateLimiter

	docs.SwaggerInfo.BasePath = ""

	svc.app = fiber.New(fiber.Config{
		AppName:      "trilha_api",
		JSONEncoder:  shared.JSONEncoder,
		JSONDecoder:  shared.JSONDecoder,
		ErrorHandler: svc.handleError,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length",
	}))
	svc.app.Use(MonitoringMiddleware(svc.monitoringSvc))
	svc.app.Use(svc.rateLimiter.IPRateLimit())

	svc.app.Get("/ping", svc.ping)
	svc.app.Get("/swagger/*", swagger.HandlerDefault)

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("HTTP listener starting")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes() {
	activityHandler := handlers.NewActivityHandler(svc.activitySvc)
	streakHandler := handlers.NewStreakHandler(svc.streakSvc)
	missionHandler := handlers.NewMissionHandler(svc.missionSvc)
	achievementHandler := handlers.NewAchievementHandler(svc.achievementSvc, svc.notificationSvc)
	adminHandler := handlers.NewAdminHandler(svc.missionSvc, svc.achievementSvc, svc.badgeSvc)

	v1 := svc.app.Group("/api/v1", svc.auth.RequiredAuth())

	v1.Post("/activity", svc.rateLimiter.UserRateLimit("record_activity"), activityHandler.RecordActivity)
	v1.Get("/activity/today", activityHandler.GetTodayActivity)
	v1.Get("/activity/history", activityHandler.GetActivityHistory)
	v1.Get("/activity/weekly", activityHandler.GetWeeklyStats)

	v1.Get("/streak", streakHandler.GetStreak)
	v1.Post("/streak/freeze", streakHandler.UseFreeze)
	v1.Get("/streak/milestones", streakHandler.GetMilestones)

	v1.Get("/missions", missionHandler.GetMissions)
	v1.Post("/missions/login", missionHandler.MarkLogin)

	v1.Post("/events", svc.rateLimiter.UserRateLimit("track_event"), achievementHandler.TrackEvent)
	v1.Get("/achievements", achievementHandler.GetAchievements)
	v1.Get("/achievements/stats", achievementHandler.GetNotificationStats)
	v1.Get("/achievements/unnotified", achievementHandler.GetUnnotified)
	v1.Post("/achievements/:achievementId/notify", achievementHandler.MarkNotified)
	v1.Post("/achievements/:achievementId/viewed", achievementHandler.MarkViewed)

	admin := v1.Group("/admin", svc.auth.RequireAdmin())

	admin.Get("/missions", adminHandler.ListMissions)
	admin.Post("/missions", adminHandler.CreateMission)
	admin.Put("/missions/:missionId", adminHandler.UpdateMission)
	admin.Delete("/missions/:missionId", adminHandler.ArchiveMission)

	admin.Get("/achievements", adminHandler.ListAchievements)
	admin.Post("/achievements", adminHandler.CreateAchievement)
	admin.Put("/achievements/:achievementId", adminHandler.UpdateAchievement)
	admin.Delete("/achievements/:achievementId", adminHandler.ArchiveAchievement)
	admin.Post("/achievements/:achievementId/badge", adminHandler.UploadBadge)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
