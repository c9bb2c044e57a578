// model/gamification.go
package model

import (
	"time"
)

// DailyActivity is the per-user per-day activity ledger row. ActivityDate
// is a UTC calendar date string ("2006-01-02"); one row per user per day.
type DailyActivity struct {
	ID                    string    `json:"id" gorm:"primaryKey"`
	UserID                string    `json:"user_id" gorm:"not null;uniqueIndex:idx_daily_activity_user_date"`
	ActivityDate          string    `json:"activity_date" gorm:"not null;uniqueIndex:idx_daily_activity_user_date"`
	QuestionsCompleted    int       `json:"questions_completed" gorm:"default:0"`
	QuizzesCompleted      int       `json:"quizzes_completed" gorm:"default:0"`
	ArticlesRead          int       `json:"articles_read" gorm:"default:0"`
	TrailContentCompleted int       `json:"trail_content_completed" gorm:"default:0"`
	TrailsCompleted       int       `json:"trails_completed" gorm:"default:0"`
	TimeSpentMinutes      int       `json:"time_spent_minutes" gorm:"default:0"`
	MissionsCompleted     int       `json:"missions_completed" gorm:"default:0"`
	StreakDay             int       `json:"streak_day" gorm:"default:0"`
	FreezeUsed            bool      `json:"freeze_used" gorm:"default:false"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// HasCompletedActivity reports whether any content counter moved; time
// spent on its own does not count as an active day.
func (d *DailyActivity) HasCompletedActivity() bool {
	return d.QuestionsCompleted > 0 ||
		d.QuizzesCompleted > 0 ||
		d.ArticlesRead > 0 ||
		d.TrailContentCompleted > 0 ||
		d.TrailsCompleted > 0
}

// StreakState holds one user's streak counters. Date fields are UTC
// calendar date strings; nil means no activity recorded yet.
type StreakState struct {
	ID                     string     `json:"id" gorm:"primaryKey"`
	UserID                 string     `json:"user_id" gorm:"not null;uniqueIndex"`
	CurrentStreak          int        `json:"current_streak" gorm:"default:0"`
	LongestStreak          int        `json:"longest_streak" gorm:"default:0"`
	LastActivityDate       *string    `json:"last_activity_date"`
	CurrentStreakStartDate *string    `json:"current_streak_start_date"`
	TotalActiveDays        int        `json:"total_active_days" gorm:"default:0"`
	FreezesAvailable       int        `json:"freezes_available" gorm:"default:0"`
	FreezesUsed            int        `json:"freezes_used" gorm:"default:0"`
	LastFreezeUsedAt       *time.Time `json:"last_freeze_used_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// StreakMilestone is a catalog entry awarded when a streak reaches Days.
type StreakMilestone struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Days         int       `json:"days" gorm:"not null;uniqueIndex"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	BadgeURL     string    `json:"badge_url"`
	FreezeReward int       `json:"freeze_reward" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserStreakMilestone is the append-only award ledger; the composite
// unique index makes re-awarding a no-op.
type UserStreakMilestone struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_streak_milestone"`
	MilestoneID string    `json:"milestone_id" gorm:"not null;uniqueIndex:idx_user_streak_milestone"`
	AchievedAt  time.Time `json:"achieved_at"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationship
	Milestone StreakMilestone `json:"milestone" gorm:"foreignKey:MilestoneID"`
}

// Mission types
const (
	MissionCompleteQuestions    = "complete_questions"
	MissionCompleteQuiz         = "complete_quiz"
	MissionReadArticle          = "read_article"
	MissionCompleteTrailContent = "complete_trail_content"
	MissionBookmarkArticles     = "bookmark_articles"
	MissionLoginDaily           = "login_daily"
	MissionAchieveScore         = "achieve_score"
	MissionSpendTimeLearning    = "spend_time_learning"
	MissionCompleteStreak       = "complete_streak"
)

// Mission frequencies
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Mission statuses
const (
	MissionActive   = "active"
	MissionInactive = "inactive"
	MissionArchived = "archived"
)

// Mission is a catalog entry users get assigned copies of.
type Mission struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Type        string     `json:"type" gorm:"not null"`
	Frequency   string     `json:"frequency" gorm:"not null;default:daily"`
	Status      string     `json:"status" gorm:"not null;default:active"`
	TargetValue int        `json:"target_value" gorm:"not null"`
	IconURL     string     `json:"icon_url"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserMissionAssignment tracks one user's progress against one mission
// for one assignment window. AssignedDate is the UTC calendar date the
// window opened; the composite unique index makes assignment idempotent.
type UserMissionAssignment struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_mission_date"`
	MissionID       string     `json:"mission_id" gorm:"not null;uniqueIndex:idx_user_mission_date"`
	AssignedDate    string     `json:"assigned_date" gorm:"not null;uniqueIndex:idx_user_mission_date"`
	CurrentProgress int        `json:"current_progress" gorm:"default:0"`
	IsCompleted     bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relationship
	Mission Mission `json:"mission" gorm:"foreignKey:MissionID"`
}
