package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veredas-labs/trilha_api/shared"
)

type MissionHandler struct {
	missionSvc MissionServiceInterface
}

func NewMissionHandler(missionSvc MissionServiceInterface) *MissionHandler {
	return &MissionHandler{
		missionSvc: missionSvc,
	}
}

// @Summary Get missions
// @Description Get the user's current missions grouped by frequency, assigning today's set if needed
// @Tags mission
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.MissionsOverviewResponse}
// @Router /api/v1/missions [get]
func (h *MissionHandler) GetMissions(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	missions, err := h.missionSvc.GetUserMissions(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", missions)
}

// @Summary Complete login mission
// @Description Mark the daily login mission complete for today
// @Tags mission
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.MissionsOverviewResponse}
// @Router /api/v1/missions/login [post]
func (h *MissionHandler) MarkLogin(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.missionSvc.MarkLoginMission(userID); err != nil {
		return err
	}

	missions, err := h.missionSvc.GetUserMissions(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", missions)
}
