package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/shared"
)

type AdminHandler struct {
	missionSvc     MissionServiceInterface
	achievementSvc AchievementServiceInterface
	badgeSvc       BadgeStorageInterface
}

func NewAdminHandler(missionSvc MissionServiceInterface, achievementSvc AchievementServiceInterface, badgeSvc BadgeStorageInterface) *AdminHandler {
	return &AdminHandler{
		missionSvc:     missionSvc,
		achievementSvc: achievementSvc,
		badgeSvc:       badgeSvc,
	}
}

// @Summary List missions (Admin)
// @Description List the mission catalog, optionally filtered by status
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param status query string false "Status filter" Enums(active, inactive, archived)
// @Success 200 {object} shared.Response{data=[]model.Mission}
// @Router /api/v1/admin/missions [get]
func (h *AdminHandler) ListMissions(c *fiber.Ctx) error {
	missions, err := h.missionSvc.ListMissions(c.Query("status"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", missions)
}

// @Summary Create mission (Admin)
// @Description Create a mission definition
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param missionRequest body dto.CreateMissionRequest true "Mission"
// @Success 200 {object} shared.Response{data=model.Mission}
// @Router /api/v1/admin/missions [post]
func (h *AdminHandler) CreateMission(c *fiber.Ctx) error {
	var req dto.CreateMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	mission, err := h.missionSvc.CreateMission(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Mission created", mission)
}

// @Summary Update mission (Admin)
// @Description Update fields of a mission definition
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param missionId path string true "Mission ID"
// @Param missionRequest body dto.UpdateMissionRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=model.Mission}
// @Router /api/v1/admin/missions/{missionId} [put]
func (h *AdminHandler) UpdateMission(c *fiber.Ctx) error {
	missionID := c.Params("missionId")

	var req dto.UpdateMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	mission, err := h.missionSvc.UpdateMission(missionID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Mission updated", mission)
}

// @Summary Archive mission (Admin)
// @Description Archive a mission so it is no longer assigned
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param missionId path string true "Mission ID"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/admin/missions/{missionId} [delete]
func (h *AdminHandler) ArchiveMission(c *fiber.Ctx) error {
	missionID := c.Params("missionId")

	if err := h.missionSvc.ArchiveMission(missionID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Mission archived", missionID)
}

// @Summary List achievements (Admin)
// @Description List achievement definitions, optionally filtered by status
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param status query string false "Status filter" Enums(active, inactive, archived)
// @Success 200 {object} shared.Response{data=[]model.AchievementDefinition}
// @Router /api/v1/admin/achievements [get]
func (h *AdminHandler) ListAchievements(c *fiber.Ctx) error {
	achievements, err := h.achievementSvc.ListAchievements(c.Query("status"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", achievements)
}

// @Summary Create achievement (Admin)
// @Description Create an achievement definition
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param achievementRequest body dto.CreateAchievementRequest true "Achievement"
// @Success 200 {object} shared.Response{data=model.AchievementDefinition}
// @Router /api/v1/admin/achievements [post]
func (h *AdminHandler) CreateAchievement(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	achievement, err := h.achievementSvc.CreateAchievement(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Achievement created", achievement)
}

// @Summary Update achievement (Admin)
// @Description Update fields of an achievement definition
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param achievementId path string true "Achievement ID"
// @Param achievementRequest body dto.UpdateAchievementRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=model.AchievementDefinition}
// @Router /api/v1/admin/achievements/{achievementId} [put]
func (h *AdminHandler) UpdateAchievement(c *fiber.Ctx) error {
	achievementID := c.Params("achievementId")

	var req dto.UpdateAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	achievement, err := h.achievementSvc.UpdateAchievement(achievementID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Achievement updated", achievement)
}

// @Summary Archive achievement (Admin)
// @Description Archive an achievement; existing unlocks are kept
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param achievementId path string true "Achievement ID"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/admin/achievements/{achievementId} [delete]
func (h *AdminHandler) ArchiveAchievement(c *fiber.Ctx) error {
	achievementID := c.Params("achievementId")

	if err := h.achievementSvc.ArchiveAchievement(achievementID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Achievement archived", achievementID)
}

// @Summary Upload achievement badge (Admin)
// @Description Upload a badge image for an achievement definition
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param achievementId path string true "Achievement ID"
// @Param badge formData file true "Badge image (PNG, JPG, WEBP, SVG)"
// @Success 200 {object} shared.Response{data=model.AchievementDefinition}
// @Router /api/v1/admin/achievements/{achievementId}/badge [post]
func (h *AdminHandler) UploadBadge(c *fiber.Ctx) error {
	achievementID := c.Params("achievementId")

	if _, err := h.achievementSvc.GetAchievementByID(achievementID); err != nil {
		return err
	}

	file, err := c.FormFile("badge")
	if err != nil {
		return shared.NewBadRequestError(err, "No badge file provided")
	}

	src, err := file.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "Could not read badge file")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	objectKey, url, err := h.badgeSvc.UploadBadge(achievementID, file.Filename, src, file.Size, contentType)
	if err != nil {
		return err
	}

	achievement, err := h.achievementSvc.SetBadgeImage(achievementID, objectKey, url)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Badge uploaded", achievement)
}
