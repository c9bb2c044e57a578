package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/shared"
)

type ActivityHandler struct {
	activitySvc ActivityServiceInterface
}

func NewActivityHandler(activitySvc ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{
		activitySvc: activitySvc,
	}
}

// @Summary Record activity
// @Description Record a learning activity for today and advance streaks and missions
// @Tags activity
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param activityRequest body dto.RecordActivityRequest true "Activity"
// @Success 200 {object} shared.Response{data=dto.DailyActivityResponse}
// @Router /api/v1/activity [post]
func (h *ActivityHandler) RecordActivity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	activity, err := h.activitySvc.RecordActivity(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", activity)
}

// @Summary Get today's activity
// @Description Get the authenticated user's activity ledger entry for today
// @Tags activity
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.DailyActivityResponse}
// @Router /api/v1/activity/today [get]
func (h *ActivityHandler) GetTodayActivity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	activity, err := h.activitySvc.GetTodayActivity(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", activity)
}

// @Summary Get activity history
// @Description Get daily activity entries for the trailing N days
// @Tags activity
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param days query int false "Number of days" default(30)
// @Success 200 {object} shared.Response{data=[]dto.DailyActivityResponse}
// @Router /api/v1/activity/history [get]
func (h *ActivityHandler) GetActivityHistory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 {
		return shared.NewBadRequestError(err, "Invalid days parameter")
	}

	history, err := h.activitySvc.GetActivityHistory(userID, days)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", history)
}

// @Summary Get weekly stats
// @Description Get aggregated activity for the trailing 7 days
// @Tags activity
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.WeeklyStatsResponse}
// @Router /api/v1/activity/weekly [get]
func (h *ActivityHandler) GetWeeklyStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	stats, err := h.activitySvc.GetWeeklyStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}
