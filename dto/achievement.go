package dto

import (
	"time"

	"github.com/veredas-labs/trilha_api/model"
)

type CreateAchievementRequest struct {
	Slug        string `json:"slug" validate:"required,max=100,alphanumdash"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"omitempty,oneof=general engagement trails wiki questions certification"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=bronze silver gold platinum diamond"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=public secret"`

	TriggerType         string  `json:"trigger_type" validate:"required"`
	TargetCount         int     `json:"target_count" validate:"gte=0"`
	TargetResourceID    string  `json:"target_resource_id"`
	TargetAccuracy      float64 `json:"target_accuracy" validate:"gte=0,lte=100"`
	TargetTimeSeconds   int     `json:"target_time_seconds" validate:"gte=0"`
	TargetStreakDays    int     `json:"target_streak_days" validate:"gte=0"`
	MinimumSample       int     `json:"minimum_sample" validate:"gte=0"`
	RequirePerfectScore bool    `json:"require_perfect_score"`
	RequireSequential   bool    `json:"require_sequential"`

	BadgeIcon    string `json:"badge_icon"`
	BadgeColor   string `json:"badge_color"`
	DisplayOrder int    `json:"display_order"`
}

func (c CreateAchievementRequest) Validate() error {
	return GetValidator().Struct(c)
}

type UpdateAchievementRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Category    *string `json:"category" validate:"omitempty,oneof=general engagement trails wiki questions certification"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=bronze silver gold platinum diamond"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Visibility  *string `json:"visibility" validate:"omitempty,oneof=public secret"`

	TargetCount       *int     `json:"target_count" validate:"omitempty,gte=0"`
	TargetAccuracy    *float64 `json:"target_accuracy" validate:"omitempty,gte=0,lte=100"`
	TargetTimeSeconds *int     `json:"target_time_seconds" validate:"omitempty,gte=0"`
	TargetStreakDays  *int     `json:"target_streak_days" validate:"omitempty,gte=0"`
	MinimumSample     *int     `json:"minimum_sample" validate:"omitempty,gte=0"`

	BadgeIcon    *string `json:"badge_icon"`
	BadgeColor   *string `json:"badge_color"`
	DisplayOrder *int    `json:"display_order"`
}

func (u UpdateAchievementRequest) Validate() error {
	return GetValidator().Struct(u)
}

type AchievementDefinitionResponse struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Status       string `json:"status"`
	Visibility   string `json:"visibility"`
	TriggerType  string `json:"trigger_type"`
	TargetValue  int    `json:"target_value"`
	BadgeIcon    string `json:"badge_icon"`
	BadgeColor   string `json:"badge_color"`
	BadgeImage   string `json:"badge_image_url"`
	DisplayOrder int    `json:"display_order"`
}

func NewAchievementDefinitionResponse(d *model.AchievementDefinition) AchievementDefinitionResponse {
	return AchievementDefinitionResponse{
		ID:           d.ID,
		Slug:         d.Slug,
		Name:         d.Name,
		Description:  d.Description,
		Category:     d.Category,
		Difficulty:   d.Difficulty,
		Status:       d.Status,
		Visibility:   d.Visibility,
		TriggerType:  d.TriggerType,
		TargetValue:  d.TargetValue(),
		BadgeIcon:    d.BadgeIcon,
		BadgeColor:   d.BadgeColor,
		BadgeImage:   d.BadgeImageURL,
		DisplayOrder: d.DisplayOrder,
	}
}

type UserAchievementResponse struct {
	Achievement        AchievementDefinitionResponse `json:"achievement"`
	CurrentValue       int                           `json:"current_value"`
	TargetValue        int                           `json:"target_value"`
	ProgressPercentage int                           `json:"progress_percentage"`
	IsUnlocked         bool                          `json:"is_unlocked"`
	UnlockedAt         *time.Time                    `json:"unlocked_at,omitempty"`
	ViewedAt           *time.Time                    `json:"viewed_at,omitempty"`
}

type UnlockNotificationResponse struct {
	AchievementID string     `json:"achievement_id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Difficulty    string     `json:"difficulty"`
	BadgeIcon     string     `json:"badge_icon"`
	BadgeColor    string     `json:"badge_color"`
	BadgeImage    string     `json:"badge_image_url"`
	UnlockedAt    *time.Time `json:"unlocked_at"`
}

type NotificationStatsResponse struct {
	TotalUnlocked int `json:"total_unlocked"`
	Unnotified    int `json:"unnotified"`
	Unviewed      int `json:"unviewed"`
}
