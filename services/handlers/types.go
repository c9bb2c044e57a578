package handlers

import (
	"io"

	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/model"
)

type ActivityServiceInterface interface {
	RecordActivity(userID string, req dto.RecordActivityRequest) (*dto.DailyActivityResponse, error)
	GetTodayActivity(userID string) (*dto.DailyActivityResponse, error)
	GetActivityHistory(userID string, days int) ([]dto.DailyActivityResponse, error)
	GetWeeklyStats(userID string) (*dto.WeeklyStatsResponse, error)
}

type StreakServiceInterface interface {
	GetUserStreak(userID string) (*dto.UserStreakResponse, error)
	UseFreeze(userID, date string) (*dto.UserStreakResponse, error)
	GetUserMilestones(userID string) ([]dto.MilestoneResponse, error)
}

type MissionServiceInterface interface {
	GetUserMissions(userID string) (*dto.MissionsOverviewResponse, error)
	MarkLoginMission(userID string) error
	CreateMission(req dto.CreateMissionRequest) (*model.Mission, error)
	UpdateMission(id string, req dto.UpdateMissionRequest) (*model.Mission, error)
	ArchiveMission(id string) error
	ListMissions(status string) ([]model.Mission, error)
}

type AchievementServiceInterface interface {
	TrackEvent(userID string, event dto.Event) ([]string, error)
	GetUserAchievements(userID string) ([]dto.UserAchievementResponse, error)
	GetAchievementByID(id string) (*dto.AchievementDefinitionResponse, error)
	CreateAchievement(createdBy string, req dto.CreateAchievementRequest) (*model.AchievementDefinition, error)
	UpdateAchievement(id string, req dto.UpdateAchievementRequest) (*model.AchievementDefinition, error)
	ArchiveAchievement(id string) error
	ListAchievements(status string) ([]model.AchievementDefinition, error)
	SetBadgeImage(id, objectKey, url string) (*model.AchievementDefinition, error)
}

type NotificationServiceInterface interface {
	ListUnnotified(userID string) ([]dto.UnlockNotificationResponse, error)
	MarkNotified(userID, achievementID string) error
	MarkViewed(userID, achievementID string) error
	GetNotificationStats(userID string) (*dto.NotificationStatsResponse, error)
}

type BadgeStorageInterface interface {
	UploadBadge(achievementID, filename string, reader io.Reader, size int64, contentType string) (objectKey, url string, err error)
	DeleteBadge(objectKey string) error
}
