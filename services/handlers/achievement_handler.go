package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/shared"
)

type AchievementHandler struct {
	achievementSvc  AchievementServiceInterface
	notificationSvc NotificationServiceInterface
}

func NewAchievementHandler(achievementSvc AchievementServiceInterface, notificationSvc NotificationServiceInterface) *AchievementHandler {
	return &AchievementHandler{
		achievementSvc:  achievementSvc,
		notificationSvc: notificationSvc,
	}
}

// @Summary Track event
// @Description Ingest a domain event and evaluate achievement triggers for the user
// @Tags achievement
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.TrackEventRequest true "Event"
// @Success 200 {object} shared.Response{data=[]string}
// @Router /api/v1/events [post]
func (h *AchievementHandler) TrackEvent(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.TrackEventRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	event, err := req.ToEvent()
	if err != nil {
		return shared.NewBadRequestError(err, "Unknown event type")
	}

	unlocked, err := h.achievementSvc.TrackEvent(userID, event)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", unlocked)
}

// @Summary Get achievements
// @Description Get the full achievement list with the user's progress; secret achievements stay hidden until unlocked
// @Tags achievement
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.UserAchievementResponse}
// @Router /api/v1/achievements [get]
func (h *AchievementHandler) GetAchievements(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	achievements, err := h.achievementSvc.GetUserAchievements(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", achievements)
}

// @Summary Get unnotified unlocks
// @Description Get unlocked achievements the user has not been shown yet, oldest first
// @Tags achievement
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.UnlockNotificationResponse}
// @Router /api/v1/achievements/unnotified [get]
func (h *AchievementHandler) GetUnnotified(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	notifications, err := h.notificationSvc.ListUnnotified(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", notifications)
}

// @Summary Mark unlock notified
// @Description Mark an unlocked achievement as delivered to the user
// @Tags achievement
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param achievementId path string true "Achievement ID"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/achievements/{achievementId}/notify [post]
func (h *AchievementHandler) MarkNotified(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	achievementID := c.Params("achievementId")

	if err := h.notificationSvc.MarkNotified(userID, achievementID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "notified")
}

// @Summary Mark unlock viewed
// @Description Mark an unlocked achievement as seen by the user
// @Tags achievement
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param achievementId path string true "Achievement ID"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/achievements/{achievementId}/viewed [post]
func (h *AchievementHandler) MarkViewed(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	achievementID := c.Params("achievementId")

	if err := h.notificationSvc.MarkViewed(userID, achievementID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "viewed")
}

// @Summary Get notification stats
// @Description Get counts of unlocked, unnotified and unviewed achievements
// @Tags achievement
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.NotificationStatsResponse}
// @Router /api/v1/achievements/stats [get]
func (h *AchievementHandler) GetNotificationStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	stats, err := h.notificationSvc.GetNotificationStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}
