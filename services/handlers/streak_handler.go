package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/shared"
)

type StreakHandler struct {
	streakSvc StreakServiceInterface
}

func NewStreakHandler(streakSvc StreakServiceInterface) *StreakHandler {
	return &StreakHandler{
		streakSvc: streakSvc,
	}
}

// @Summary Get streak
// @Description Get the authenticated user's streak state and next milestone
// @Tags streak
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserStreakResponse}
// @Router /api/v1/streak [get]
func (h *StreakHandler) GetStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	streak, err := h.streakSvc.GetUserStreak(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", streak)
}

// @Summary Use streak freeze
// @Description Spend one streak freeze to protect a missed day
// @Tags streak
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param freezeRequest body dto.UseFreezeRequest false "Date to protect, defaults to today"
// @Success 200 {object} shared.Response{data=dto.UserStreakResponse}
// @Router /api/v1/streak/freeze [post]
func (h *StreakHandler) UseFreeze(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UseFreezeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request")
		}

		if err := req.Validate(); err != nil {
			validationResp := dto.CreateValidationErrorResponse(err)
			return c.Status(fiber.StatusBadRequest).JSON(validationResp)
		}
	}

	streak, err := h.streakSvc.UseFreeze(userID, req.Date)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Freeze applied", streak)
}

// @Summary Get streak milestones
// @Description Get the milestone catalog with the user's achieved markers
// @Tags streak
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.MilestoneResponse}
// @Router /api/v1/streak/milestones [get]
func (h *StreakHandler) GetMilestones(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	milestones, err := h.streakSvc.GetUserMilestones(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", milestones)
}
