// model/achievement.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// Achievement trigger types. Each maps from one or more event types; the
// evaluation switch in the achievement service is exhaustive over these.
const (
	TriggerFirstLogin           = "first_login"
	TriggerOnboardingComplete   = "onboarding_complete"
	TriggerLoginStreak          = "login_streak"
	TriggerCompleteTrails       = "complete_trails"
	TriggerCompleteTrailsPerf   = "complete_trails_perfect"
	TriggerCompleteSpecificTrail = "complete_specific_trail"
	TriggerReadArticlesCount    = "read_articles_count"
	TriggerReadSpecificArticle  = "read_specific_article"
	TriggerBookmarkArticles     = "bookmark_articles_count"
	TriggerQuestionsAnswered    = "questions_answered_count"
	TriggerQuestionAccuracy     = "question_accuracy_rate"
	TriggerCompleteQuizCount    = "complete_quiz_count"
	TriggerFirstCertificate     = "first_certificate"
	TriggerCertificateHighScore = "certificate_high_score"
	TriggerTimeSpentTotal       = "time_spent_total"
)

// Achievement statuses / visibility
const (
	AchievementActive   = "active"
	AchievementInactive = "inactive"
	AchievementArchived = "archived"

	VisibilityPublic = "public"
	VisibilitySecret = "secret"
)

// AchievementDefinition is the admin-managed catalog. Trigger config is
// flat typed columns; only the fields relevant to TriggerType are set.
type AchievementDefinition struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"not null;uniqueIndex"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category"`   // general, engagement, trails, wiki, questions, certification
	Difficulty  string `json:"difficulty"` // bronze, silver, gold, platinum, diamond
	Status      string `json:"status" gorm:"not null;default:active"`
	Visibility  string `json:"visibility" gorm:"not null;default:public"`

	TriggerType         string  `json:"trigger_type" gorm:"not null;index"`
	TargetCount         int     `json:"target_count" gorm:"default:1"`
	TargetResourceID    string  `json:"target_resource_id"`
	TargetAccuracy      float64 `json:"target_accuracy" gorm:"default:0"`
	TargetTimeSeconds   int     `json:"target_time_seconds" gorm:"default:0"`
	TargetStreakDays    int     `json:"target_streak_days" gorm:"default:0"`
	MinimumSample       int     `json:"minimum_sample" gorm:"default:0"`
	RequirePerfectScore bool    `json:"require_perfect_score" gorm:"default:false"`
	RequireSequential   bool    `json:"require_sequential" gorm:"default:false"`

	BadgeIcon      string `json:"badge_icon"`
	BadgeColor     string `json:"badge_color"`
	BadgeImageURL  string `json:"badge_image_url"`
	BadgeObjectKey string `json:"badge_object_key"`
	DisplayOrder   int    `json:"display_order" gorm:"default:0"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TargetValue is the denominator used for progress percentage, picked by
// trigger type.
func (a *AchievementDefinition) TargetValue() int {
	switch a.TriggerType {
	case TriggerLoginStreak:
		return a.TargetStreakDays
	case TriggerQuestionAccuracy:
		return int(a.TargetAccuracy)
	case TriggerTimeSpentTotal:
		return a.TargetTimeSeconds
	default:
		return a.TargetCount
	}
}

// UserAchievementProgress is one user's progress against one definition.
// Context holds trigger-specific accumulators (accuracy counts, seen
// resource sets) that don't fit the scalar CurrentValue.
type UserAchievementProgress struct {
	ID                 string            `json:"id" gorm:"primaryKey"`
	UserID             string            `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID      string            `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	CurrentValue       int               `json:"current_value" gorm:"default:0"`
	TargetValue        int               `json:"target_value" gorm:"not null"`
	ProgressPercentage int               `json:"progress_percentage" gorm:"default:0"`
	IsUnlocked         bool              `json:"is_unlocked" gorm:"default:false;index"`
	UnlockedAt         *time.Time        `json:"unlocked_at"`
	NotifiedAt         *time.Time        `json:"notified_at"`
	ViewedAt           *time.Time        `json:"viewed_at"`
	Context            datatypes.JSONMap `json:"context"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// Relationship
	Achievement AchievementDefinition `json:"achievement" gorm:"foreignKey:AchievementID"`
}

// AchievementEvent is the append-only event ledger; rows are written
// before evaluation and marked processed after.
type AchievementEvent struct {
	ID                    string            `json:"id" gorm:"primaryKey"`
	UserID                string            `json:"user_id" gorm:"not null;index"`
	EventType             string            `json:"event_type" gorm:"not null"`
	EventData             datatypes.JSONMap `json:"event_data"`
	Processed             bool              `json:"processed" gorm:"default:false"`
	ProcessedAt           *time.Time        `json:"processed_at"`
	AchievementsEvaluated int               `json:"achievements_evaluated" gorm:"default:0"`
	AchievementsUnlocked  string            `json:"achievements_unlocked"` // comma-joined ids
	Error                 string            `json:"error" gorm:"type:text"`
	CreatedAt             time.Time         `json:"created_at"`
}
