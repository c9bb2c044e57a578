// services/achievement.go
package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/model"
	"github.com/veredas-labs/trilha_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// AchievementService evaluates domain events against the achievement
// catalog. Every event lands in the ledger first; evaluation failures
// are recorded on the event row, never propagated per-achievement.
type AchievementService struct {
	context.DefaultService

	sqlSvc        *SqlService
	monitoringSvc *MonitoringService

	userLocks *shared.UserLockTable
}

const ACHIEVEMENT_SVC = "achievement_svc"

func (svc AchievementService) Id() string {
	return ACHIEVEMENT_SVC
}

func (svc *AchievementService) Configure(ctx *context.Context) error {
	svc.userLocks = shared.NewUserLockTable()
	return svc.DefaultService.Configure(ctx)
}

func (svc *AchievementService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// triggersForEvent maps an event type onto the trigger types it can
// move. An event type missing here is recorded but evaluates nothing.
func triggersForEvent(eventType string) []string {
	switch eventType {
	case dto.EventUserLogin:
		return []string{model.TriggerFirstLogin}
	case dto.EventOnboardingCompleted:
		return []string{model.TriggerOnboardingComplete}
	case dto.EventStreakUpdated:
		return []string{model.TriggerLoginStreak}
	case dto.EventTrailCompleted:
		return []string{model.TriggerCompleteTrails, model.TriggerCompleteTrailsPerf, model.TriggerCompleteSpecificTrail}
	case dto.EventArticleRead:
		return []string{model.TriggerReadArticlesCount, model.TriggerReadSpecificArticle}
	case dto.EventArticleBookmarked:
		return []string{model.TriggerBookmarkArticles}
	case dto.EventQuestionAnswered:
		return []string{model.TriggerQuestionsAnswered, model.TriggerQuestionAccuracy}
	case dto.EventQuizCompleted:
		return []string{model.TriggerCompleteQuizCount}
	case dto.EventCertificateEarned:
		return []string{model.TriggerFirstCertificate, model.TriggerCertificateHighScore}
	case dto.EventTimeSpent:
		return []string{model.TriggerTimeSpentTotal}
	default:
		return nil
	}
}

// TrackEvent records the event and evaluates every active definition
// its type can move. Returns the ids of achievements this event
// unlocked.
func (svc *AchievementService) TrackEvent(userID string, event dto.Event) ([]string, error) {
	svc.userLocks.Lock(userID)
	defer svc.userLocks.Unlock(userID)

	started := time.Now()

	row, err := svc.sqlSvc.CreateAchievementEvent(&model.AchievementEvent{
		UserID:    userID,
		EventType: event.EventType(),
		EventData: datatypes.JSONMap(event.Payload()),
	})
	if err != nil {
		return nil, err
	}

	triggers := triggersForEvent(event.EventType())
	if len(triggers) == 0 {
		if err := svc.sqlSvc.MarkEventProcessed(row.ID, 0, nil, ""); err != nil {
			return nil, err
		}
		return nil, nil
	}

	defs, err := svc.sqlSvc.GetActiveDefinitionsByTrigger(triggers)
	if err != nil {
		return nil, err
	}

	var unlocked []string
	var evalErr string
	for i := range defs {
		def := &defs[i]
		didUnlock, err := svc.evaluate(userID, def, event)
		if err != nil {
			evalErr = err.Error()
			log.WithError(err).WithFields(log.Fields{
				"user_id":     userID,
				"achievement": def.Slug,
			}).Error("Achievement evaluation failed")
			continue
		}
		if didUnlock {
			unlocked = append(unlocked, def.ID)
			svc.monitoringSvc.RecordAchievementUnlocked(def.Category)
		}
	}

	svc.monitoringSvc.RecordEventProcessed(event.EventType(), time.Since(started))

	if err := svc.sqlSvc.MarkEventProcessed(row.ID, len(defs), unlocked, evalErr); err != nil {
		return unlocked, err
	}
	return unlocked, nil
}

// TrackEventLogged is the fire-and-forget surface other services use;
// failures are logged, never bubbled into the caller's operation.
func (svc *AchievementService) TrackEventLogged(userID string, event dto.Event) {
	if _, err := svc.TrackEvent(userID, event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"event":   event.EventType(),
		}).Error("Failed to track achievement event")
	}
}

// evaluate advances one definition for one event. Reports whether this
// call performed the unlock transition.
func (svc *AchievementService) evaluate(userID string, def *model.AchievementDefinition, event dto.Event) (bool, error) {
	progress, err := svc.sqlSvc.GetOrCreateAchievementProgress(userID, def)
	if err != nil {
		return false, err
	}

	// Unlocked rows never move again.
	if progress.IsUnlocked {
		return false, nil
	}

	newValue, ctx, qualifies, err := nextProgress(def, progress, event)
	if err != nil {
		return false, err
	}
	if !qualifies {
		return false, nil
	}

	fields := map[string]interface{}{
		"current_value":       newValue,
		"progress_percentage": shared.ProgressPercentage(newValue, progress.TargetValue),
	}
	if ctx != nil {
		fields["context"] = ctx
	}

	unlock := newValue >= progress.TargetValue
	if unlock {
		now := time.Now()
		// Unlock fields land together; a row is never unlocked without
		// its timestamp.
		fields["is_unlocked"] = true
		fields["unlocked_at"] = &now
		fields["progress_percentage"] = 100
	}

	if err := svc.sqlSvc.UpdateAchievementProgress(progress.ID, fields); err != nil {
		return false, err
	}

	if unlock {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"achievement": def.Slug,
		}).Info("Achievement unlocked")
	}
	return unlock, nil
}

// nextProgress computes the candidate progress value for the event.
// qualifies=false means the event does not move this definition at all.
func nextProgress(def *model.AchievementDefinition, progress *model.UserAchievementProgress, event dto.Event) (int, datatypes.JSONMap, bool, error) {
	switch def.TriggerType {
	case model.TriggerFirstLogin:
		if _, ok := event.(dto.LoginEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerOnboardingComplete:
		if _, ok := event.(dto.OnboardingCompletedEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerLoginStreak:
		ev, ok := event.(dto.StreakUpdatedEvent)
		if !ok {
			return 0, nil, false, nil
		}
		// Mirror the streak length; never accumulate independently.
		return ev.CurrentStreak, nil, true, nil

	case model.TriggerCompleteTrails:
		if _, ok := event.(dto.TrailCompletedEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerCompleteTrailsPerf:
		ev, ok := event.(dto.TrailCompletedEvent)
		if !ok || !ev.PerfectScore {
			return 0, nil, false, nil
		}
		if def.RequireSequential && !ev.Sequential {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerCompleteSpecificTrail:
		ev, ok := event.(dto.TrailCompletedEvent)
		if !ok || ev.TrailID == "" || ev.TrailID != def.TargetResourceID {
			return 0, nil, false, nil
		}
		if def.RequirePerfectScore && !ev.PerfectScore {
			return 0, nil, false, nil
		}
		return progress.TargetValue, nil, true, nil

	case model.TriggerReadArticlesCount:
		if _, ok := event.(dto.ArticleReadEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerReadSpecificArticle:
		ev, ok := event.(dto.ArticleReadEvent)
		if !ok || ev.ArticleID == "" || ev.ArticleID != def.TargetResourceID {
			return 0, nil, false, nil
		}
		return progress.TargetValue, nil, true, nil

	case model.TriggerBookmarkArticles:
		if _, ok := event.(dto.ArticleBookmarkedEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerQuestionsAnswered:
		if _, ok := event.(dto.QuestionAnsweredEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerQuestionAccuracy:
		ev, ok := event.(dto.QuestionAnsweredEvent)
		if !ok {
			return 0, nil, false, nil
		}
		return accuracyProgress(def, progress, ev)

	case model.TriggerCompleteQuizCount:
		ev, ok := event.(dto.QuizCompletedEvent)
		if !ok {
			return 0, nil, false, nil
		}
		if def.RequirePerfectScore && !ev.PerfectScore {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerFirstCertificate:
		if _, ok := event.(dto.CertificateEarnedEvent); !ok {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + 1, nil, true, nil

	case model.TriggerCertificateHighScore:
		ev, ok := event.(dto.CertificateEarnedEvent)
		if !ok {
			return 0, nil, false, nil
		}
		// Progress tracks the best score seen against the threshold.
		if ev.Score <= progress.CurrentValue {
			return 0, nil, false, nil
		}
		return ev.Score, nil, true, nil

	case model.TriggerTimeSpentTotal:
		ev, ok := event.(dto.TimeSpentEvent)
		if !ok || ev.Seconds <= 0 {
			return 0, nil, false, nil
		}
		return progress.CurrentValue + ev.Seconds, nil, true, nil

	default:
		return 0, nil, false, fmt.Errorf("unhandled trigger type %q", def.TriggerType)
	}
}

// accuracyProgress maintains correct/total accumulators and exposes the
// percentage as progress onto the accuracy target. Below the minimum
// sample the percentage stays pinned at zero so small samples never
// unlock.
func accuracyProgress(def *model.AchievementDefinition, progress *model.UserAchievementProgress, ev dto.QuestionAnsweredEvent) (int, datatypes.JSONMap, bool, error) {
	ctx := progress.Context
	if ctx == nil {
		ctx = datatypes.JSONMap{}
	}

	total := jsonInt(ctx["total"]) + 1
	correct := jsonInt(ctx["correct"])
	if ev.Correct {
		correct++
	}
	ctx["total"] = total
	ctx["correct"] = correct

	if total < def.MinimumSample {
		return 0, ctx, true, nil
	}

	accuracy := int(float64(correct) / float64(total) * 100)
	return accuracy, ctx, true, nil
}

// jsonInt reads a numeric JSONMap value; json decoding hands back
// float64.
func jsonInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

// ==================== READ SURFACE ====================

// GetUserAchievements returns progress against every active definition.
// Secret definitions stay hidden until unlocked.
func (svc *AchievementService) GetUserAchievements(userID string) ([]dto.UserAchievementResponse, error) {
	defs, err := svc.sqlSvc.ListAchievementDefinitions(model.AchievementActive)
	if err != nil {
		return nil, err
	}

	rows, err := svc.sqlSvc.GetUserAchievementProgress(userID)
	if err != nil {
		return nil, err
	}
	byAchievement := make(map[string]*model.UserAchievementProgress, len(rows))
	for i := range rows {
		byAchievement[rows[i].AchievementID] = &rows[i]
	}

	responses := make([]dto.UserAchievementResponse, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		progress := byAchievement[def.ID]

		if def.Visibility == model.VisibilitySecret && (progress == nil || !progress.IsUnlocked) {
			continue
		}

		resp := dto.UserAchievementResponse{
			Achievement: dto.NewAchievementDefinitionResponse(def),
			TargetValue: def.TargetValue(),
		}
		if progress != nil {
			resp.CurrentValue = progress.CurrentValue
			resp.TargetValue = progress.TargetValue
			resp.ProgressPercentage = progress.ProgressPercentage
			resp.IsUnlocked = progress.IsUnlocked
			resp.UnlockedAt = progress.UnlockedAt
			resp.ViewedAt = progress.ViewedAt
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (svc *AchievementService) GetAchievementByID(id string) (*dto.AchievementDefinitionResponse, error) {
	def, err := svc.sqlSvc.GetAchievementDefinition(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Achievement not found")
	}
	resp := dto.NewAchievementDefinitionResponse(def)
	return &resp, nil
}

// ==================== ADMIN CRUD ====================

func (svc *AchievementService) CreateAchievement(createdBy string, req dto.CreateAchievementRequest) (*model.AchievementDefinition, error) {
	if _, err := svc.sqlSvc.GetAchievementBySlug(req.Slug); err == nil {
		return nil, shared.NewConflictError(nil, "An achievement with this slug already exists")
	} else if !IsNotFound(err) {
		return nil, err
	}

	if _, err := svc.sqlSvc.GetAchievementByName(req.Name); err == nil {
		return nil, shared.NewConflictError(nil, "An achievement with this name already exists")
	} else if !IsNotFound(err) {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	def := &model.AchievementDefinition{
		Slug:                req.Slug,
		Name:                req.Name,
		Description:         req.Description,
		Category:            req.Category,
		Difficulty:          req.Difficulty,
		Status:              model.AchievementActive,
		Visibility:          visibility,
		TriggerType:         req.TriggerType,
		TargetCount:         req.TargetCount,
		TargetResourceID:    req.TargetResourceID,
		TargetAccuracy:      req.TargetAccuracy,
		TargetTimeSeconds:   req.TargetTimeSeconds,
		TargetStreakDays:    req.TargetStreakDays,
		MinimumSample:       req.MinimumSample,
		RequirePerfectScore: req.RequirePerfectScore,
		RequireSequential:   req.RequireSequential,
		BadgeIcon:           req.BadgeIcon,
		BadgeColor:          req.BadgeColor,
		DisplayOrder:        req.DisplayOrder,
		CreatedBy:           createdBy,
	}
	return svc.sqlSvc.CreateAchievementDefinition(def)
}

func (svc *AchievementService) UpdateAchievement(id string, req dto.UpdateAchievementRequest) (*model.AchievementDefinition, error) {
	if _, err := svc.sqlSvc.GetAchievementDefinition(id); err != nil {
		return nil, shared.NewNotFoundError(err, "Achievement not found")
	}

	if req.Name != nil {
		if existing, err := svc.sqlSvc.GetAchievementByName(*req.Name); err == nil && existing.ID != id {
			return nil, shared.NewConflictError(nil, "An achievement with this name already exists")
		} else if err != nil && !IsNotFound(err) {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Visibility != nil {
		fields["visibility"] = *req.Visibility
	}
	if req.TargetCount != nil {
		fields["target_count"] = *req.TargetCount
	}
	if req.TargetAccuracy != nil {
		fields["target_accuracy"] = *req.TargetAccuracy
	}
	if req.TargetTimeSeconds != nil {
		fields["target_time_seconds"] = *req.TargetTimeSeconds
	}
	if req.TargetStreakDays != nil {
		fields["target_streak_days"] = *req.TargetStreakDays
	}
	if req.MinimumSample != nil {
		fields["minimum_sample"] = *req.MinimumSample
	}
	if req.BadgeIcon != nil {
		fields["badge_icon"] = *req.BadgeIcon
	}
	if req.BadgeColor != nil {
		fields["badge_color"] = *req.BadgeColor
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}

	if len(fields) > 0 {
		if err := svc.sqlSvc.UpdateAchievementDefinition(id, fields); err != nil {
			return nil, err
		}
	}
	return svc.sqlSvc.GetAchievementDefinition(id)
}

// ArchiveAchievement retires a definition; existing unlocks keep their
// rows.
func (svc *AchievementService) ArchiveAchievement(id string) error {
	if _, err := svc.sqlSvc.GetAchievementDefinition(id); err != nil {
		return shared.NewNotFoundError(err, "Achievement not found")
	}
	return svc.sqlSvc.UpdateAchievementDefinition(id, map[string]interface{}{
		"status": model.AchievementArchived,
	})
}

func (svc *AchievementService) ListAchievements(status string) ([]model.AchievementDefinition, error) {
	return svc.sqlSvc.ListAchievementDefinitions(status)
}

// SetBadgeImage records the stored badge object for a definition after
// an upload.
func (svc *AchievementService) SetBadgeImage(id, objectKey, url string) (*model.AchievementDefinition, error) {
	if _, err := svc.sqlSvc.GetAchievementDefinition(id); err != nil {
		return nil, shared.NewNotFoundError(err, "Achievement not found")
	}

	err := svc.sqlSvc.UpdateAchievementDefinition(id, map[string]interface{}{
		"badge_object_key": objectKey,
		"badge_image_url":  url,
	})
	if err != nil {
		return nil, err
	}
	return svc.sqlSvc.GetAchievementDefinition(id)
}
