package dto

import (
	"time"

	"github.com/veredas-labs/trilha_api/model"
)

// Activity DTOs

type RecordActivityRequest struct {
	ActivityType     string `json:"activity_type" validate:"required,oneof=question quiz article trail_content trail_completed bookmark"`
	TimeSpentMinutes int    `json:"time_spent_minutes" validate:"gte=0,lte=1440"`
	Score            int    `json:"score" validate:"gte=0,lte=100"`
}

func (r RecordActivityRequest) Validate() error {
	return GetValidator().Struct(r)
}

type DailyActivityResponse struct {
	ActivityDate          string `json:"activity_date"`
	QuestionsCompleted    int    `json:"questions_completed"`
	QuizzesCompleted      int    `json:"quizzes_completed"`
	ArticlesRead          int    `json:"articles_read"`
	TrailContentCompleted int    `json:"trail_content_completed"`
	TrailsCompleted       int    `json:"trails_completed"`
	TimeSpentMinutes      int    `json:"time_spent_minutes"`
	MissionsCompleted     int    `json:"missions_completed"`
	StreakDay             int    `json:"streak_day"`
	FreezeUsed            bool   `json:"freeze_used"`
	HasCompletedActivity  bool   `json:"has_completed_activity"`
}

func NewDailyActivityResponse(a *model.DailyActivity) DailyActivityResponse {
	return DailyActivityResponse{
		ActivityDate:          a.ActivityDate,
		QuestionsCompleted:    a.QuestionsCompleted,
		QuizzesCompleted:      a.QuizzesCompleted,
		ArticlesRead:          a.ArticlesRead,
		TrailContentCompleted: a.TrailContentCompleted,
		TrailsCompleted:       a.TrailsCompleted,
		TimeSpentMinutes:      a.TimeSpentMinutes,
		MissionsCompleted:     a.MissionsCompleted,
		StreakDay:             a.StreakDay,
		FreezeUsed:            a.FreezeUsed,
		HasCompletedActivity:  a.HasCompletedActivity(),
	}
}

type WeeklyStatsResponse struct {
	StartDate             string `json:"start_date"`
	EndDate               string `json:"end_date"`
	ActiveDays            int    `json:"active_days"`
	QuestionsCompleted    int    `json:"questions_completed"`
	QuizzesCompleted      int    `json:"quizzes_completed"`
	ArticlesRead          int    `json:"articles_read"`
	TrailContentCompleted int    `json:"trail_content_completed"`
	TrailsCompleted       int    `json:"trails_completed"`
	TimeSpentMinutes      int    `json:"time_spent_minutes"`
	MissionsCompleted     int    `json:"missions_completed"`
}

// Streak DTOs

type UseFreezeRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (u UseFreezeRequest) Validate() error {
	return GetValidator().Struct(u)
}

type UserStreakResponse struct {
	CurrentStreak          int     `json:"current_streak"`
	LongestStreak          int     `json:"longest_streak"`
	LastActivityDate       *string `json:"last_activity_date"`
	CurrentStreakStartDate *string `json:"current_streak_start_date"`
	TotalActiveDays        int     `json:"total_active_days"`
	FreezesAvailable       int     `json:"freezes_available"`
	FreezesUsed            int     `json:"freezes_used"`
	CanUseFreeze           bool    `json:"can_use_freeze"`
	NextMilestone          *int    `json:"next_milestone"`
	DaysUntilNextMilestone *int    `json:"days_until_next_milestone"`
}

type MilestoneResponse struct {
	ID           string     `json:"id"`
	Days         int        `json:"days"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	BadgeURL     string     `json:"badge_url"`
	FreezeReward int        `json:"freeze_reward"`
	Achieved     bool       `json:"achieved"`
	AchievedAt   *time.Time `json:"achieved_at,omitempty"`
}

// Mission DTOs

type MissionProgressResponse struct {
	AssignmentID       string     `json:"assignment_id"`
	MissionID          string     `json:"mission_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Type               string     `json:"type"`
	Frequency          string     `json:"frequency"`
	IconURL            string     `json:"icon_url"`
	TargetValue        int        `json:"target_value"`
	CurrentProgress    int        `json:"current_progress"`
	ProgressPercentage int        `json:"progress_percentage"`
	IsCompleted        bool       `json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

type MissionsOverviewResponse struct {
	Daily   []MissionProgressResponse `json:"daily"`
	Weekly  []MissionProgressResponse `json:"weekly"`
	Monthly []MissionProgressResponse `json:"monthly"`
}

type CreateMissionRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	Type        string     `json:"type" validate:"required,oneof=complete_questions complete_quiz read_article complete_trail_content bookmark_articles login_daily achieve_score spend_time_learning complete_streak"`
	Frequency   string     `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	TargetValue int        `json:"target_value" validate:"required,gt=0"`
	IconURL     string     `json:"icon_url" validate:"omitempty,url"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
}

func (c CreateMissionRequest) Validate() error {
	return GetValidator().Struct(c)
}

type UpdateMissionRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive archived"`
	TargetValue *int    `json:"target_value" validate:"omitempty,gt=0"`
	IconURL     *string `json:"icon_url" validate:"omitempty,url"`
}

func (u UpdateMissionRequest) Validate() error {
	return GetValidator().Struct(u)
}
