// services/streak.go
package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/model"
	"github.com/veredas-labs/trilha_api/shared"
	log "github.com/sirupsen/logrus"
)

// StreakService runs the continue/break/start-over state machine and
// awards milestones when thresholds are crossed.
type StreakService struct {
	appContext.DefaultService

	sqlSvc         *SqlService
	achievementSvc *AchievementService
	missionSvc     *MissionService
	monitoringSvc  *MonitoringService
	redisSvc       *RedisService

	userLocks *shared.UserLockTable
}

const STREAK_SVC = "streak_svc"

func (svc StreakService) Id() string {
	return STREAK_SVC
}

func (svc *StreakService) Configure(ctx *appContext.Context) error {
	svc.userLocks = shared.NewUserLockTable()
	return svc.DefaultService.Configure(ctx)
}

func (svc *StreakService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.missionSvc = svc.Service(MISSION_SVC).(*MissionService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// UpdateStreakForActivity advances the streak for an activity on the
// given date. Safe to call any number of times per day; only the first
// call moves state.
func (svc *StreakService) UpdateStreakForActivity(userID, activityDate string) error {
	svc.userLocks.Lock(userID)
	defer svc.userLocks.Unlock(userID)

	if activityDate == "" {
		activityDate = shared.Today()
	}

	streak, err := svc.sqlSvc.GetOrCreateStreakState(userID)
	if err != nil {
		return err
	}

	// Already counted today.
	if streak.LastActivityDate != nil && *streak.LastActivityDate == activityDate {
		return nil
	}

	yesterday, err := shared.AddDays(activityDate, -1)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid activity date")
	}

	newStreak := 1
	startDate := activityDate
	continued := false

	switch {
	case streak.LastActivityDate == nil:
		// First ever activity.
	case *streak.LastActivityDate == yesterday:
		newStreak = streak.CurrentStreak + 1
		if streak.CurrentStreakStartDate != nil {
			startDate = *streak.CurrentStreakStartDate
		}
		continued = true
	default:
		// Gap of two or more days: start over.
	}

	longest := streak.LongestStreak
	if newStreak > longest {
		longest = newStreak
	}

	err = svc.sqlSvc.UpdateStreakState(userID, map[string]interface{}{
		"current_streak":            newStreak,
		"longest_streak":            longest,
		"last_activity_date":        activityDate,
		"current_streak_start_date": startDate,
		"total_active_days":         streak.TotalActiveDays + 1,
	})
	if err != nil {
		return err
	}

	svc.monitoringSvc.RecordStreakUpdate(continued)

	// Stamp the ledger row with the streak day it represents.
	if activity, aErr := svc.sqlSvc.GetOrCreateDailyActivity(userID, activityDate); aErr == nil {
		activity.StreakDay = newStreak
		if uErr := svc.sqlSvc.UpdateDailyActivity(activity); uErr != nil {
			log.WithError(uErr).WithField("user_id", userID).Warn("Failed to stamp streak day")
		}
	}

	if err := svc.checkAndAwardMilestones(userID, newStreak); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to award milestones")
	}

	svc.redisSvc.InvalidateUser(context.Background(), userID)

	// Mirror the streak into streak missions and login-streak triggers.
	if err := svc.missionSvc.UpdateStreakMissions(userID, newStreak); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to update streak missions")
	}
	svc.achievementSvc.TrackEventLogged(userID, dto.StreakUpdatedEvent{CurrentStreak: newStreak})

	return nil
}

// checkAndAwardMilestones grants every catalog milestone at or below
// the streak length that the user does not yet own. The award insert is
// the idempotency boundary; freeze rewards are credited only when the
// insert actually landed.
func (svc *StreakService) checkAndAwardMilestones(userID string, currentStreak int) error {
	milestones, err := svc.sqlSvc.GetMilestonesUpTo(currentStreak)
	if err != nil {
		return err
	}
	if len(milestones) == 0 {
		return nil
	}

	owned, err := svc.sqlSvc.GetUserMilestones(userID)
	if err != nil {
		return err
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, o := range owned {
		ownedIDs[o.MilestoneID] = true
	}

	for _, milestone := range milestones {
		if ownedIDs[milestone.ID] {
			continue
		}

		inserted, err := svc.sqlSvc.AwardMilestone(userID, milestone.ID)
		if err != nil {
			return err
		}
		if !inserted {
			// Raced with another award of the same milestone.
			continue
		}

		if milestone.FreezeReward > 0 {
			streak, err := svc.sqlSvc.GetStreakState(userID)
			if err != nil {
				return err
			}
			err = svc.sqlSvc.UpdateStreakState(userID, map[string]interface{}{
				"freezes_available": streak.FreezesAvailable + milestone.FreezeReward,
			})
			if err != nil {
				return err
			}
		}

		log.WithFields(log.Fields{
			"user_id":   userID,
			"milestone": milestone.Days,
		}).Info("Streak milestone awarded")
	}

	return nil
}

// UseFreeze spends one freeze credit on the given date (default today)
// so the streak survives a missed day.
func (svc *StreakService) UseFreeze(userID, date string) (*dto.UserStreakResponse, error) {
	svc.userLocks.Lock(userID)
	defer svc.userLocks.Unlock(userID)

	if date == "" {
		date = shared.Today()
	}
	if _, err := shared.ParseDate(date); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid freeze date")
	}

	streak, err := svc.sqlSvc.GetStreakState(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "No streak found for user")
	}

	if streak.FreezesAvailable <= 0 {
		return nil, shared.NewBadRequestError(nil, "No streak freezes available")
	}

	activity, err := svc.sqlSvc.GetOrCreateDailyActivity(userID, date)
	if err != nil {
		return nil, err
	}
	activity.FreezeUsed = true
	if err := svc.sqlSvc.UpdateDailyActivity(activity); err != nil {
		return nil, err
	}

	now := time.Now()
	err = svc.sqlSvc.UpdateStreakState(userID, map[string]interface{}{
		"freezes_available":   streak.FreezesAvailable - 1,
		"freezes_used":        streak.FreezesUsed + 1,
		"last_freeze_used_at": &now,
	})
	if err != nil {
		return nil, err
	}

	svc.redisSvc.InvalidateUser(context.Background(), userID)
	return svc.GetUserStreak(userID)
}

// CheckAndBreakStreaks breaks every streak whose owner has been gone
// for two or more days, unless a freeze spent yesterday is still
// absorbing the miss. One user failing never stops the batch.
func (svc *StreakService) CheckAndBreakStreaks() error {
	today := shared.Today()
	cutoff, err := shared.AddDays(today, -2)
	if err != nil {
		return shared.NewInternalError(err, "Failed to compute streak cutoff")
	}

	streaks, err := svc.sqlSvc.GetBreakableStreaks(cutoff)
	if err != nil {
		return err
	}

	broken := 0
	for i := range streaks {
		streak := &streaks[i]
		if err := svc.breakStreakIfUnprotected(streak); err != nil {
			log.WithError(err).WithField("user_id", streak.UserID).
				Error("Failed to check streak break")
			continue
		}
		broken++
	}

	log.WithFields(log.Fields{
		"candidates": len(streaks),
		"processed":  broken,
	}).Info("Streak break sweep finished")
	return nil
}

func (svc *StreakService) breakStreakIfUnprotected(streak *model.StreakState) error {
	svc.userLocks.Lock(streak.UserID)
	defer svc.userLocks.Unlock(streak.UserID)

	if streak.LastActivityDate == nil {
		return nil
	}

	// A freeze absorbs exactly one missed day, so only a freeze on
	// yesterday still protects; by the next sweep it has lapsed.
	yesterday, err := shared.AddDays(shared.Today(), -1)
	if err != nil {
		return err
	}

	activity, err := svc.sqlSvc.GetDailyActivity(streak.UserID, yesterday)
	if err == nil && activity.FreezeUsed {
		return nil
	}
	if err != nil && !IsNotFound(err) {
		return err
	}

	err = svc.sqlSvc.UpdateStreakState(streak.UserID, map[string]interface{}{
		"current_streak":            0,
		"current_streak_start_date": nil,
	})
	if err != nil {
		return err
	}

	svc.monitoringSvc.RecordStreakBroken()
	svc.redisSvc.InvalidateUser(context.Background(), streak.UserID)
	log.WithField("user_id", streak.UserID).Info("Streak broken")
	return nil
}

// GetUserStreak lazily creates the streak row so first reads never 404.
func (svc *StreakService) GetUserStreak(userID string) (*dto.UserStreakResponse, error) {
	var cached dto.UserStreakResponse
	if svc.redisSvc.GetCachedJSON(context.Background(), StreakCacheKey(userID), &cached) {
		return &cached, nil
	}

	streak, err := svc.sqlSvc.GetOrCreateStreakState(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserStreakResponse{
		CurrentStreak:          streak.CurrentStreak,
		LongestStreak:          streak.LongestStreak,
		LastActivityDate:       streak.LastActivityDate,
		CurrentStreakStartDate: streak.CurrentStreakStartDate,
		TotalActiveDays:        streak.TotalActiveDays,
		FreezesAvailable:       streak.FreezesAvailable,
		FreezesUsed:            streak.FreezesUsed,
		CanUseFreeze:           streak.FreezesAvailable > 0,
	}

	milestones, err := svc.sqlSvc.GetMilestones()
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		if m.Days > streak.CurrentStreak {
			days := m.Days
			until := m.Days - streak.CurrentStreak
			resp.NextMilestone = &days
			resp.DaysUntilNextMilestone = &until
			break
		}
	}

	svc.redisSvc.CacheJSON(context.Background(), StreakCacheKey(userID), resp)
	return resp, nil
}

func (svc *StreakService) GetUserMilestones(userID string) ([]dto.MilestoneResponse, error) {
	milestones, err := svc.sqlSvc.GetMilestones()
	if err != nil {
		return nil, err
	}

	owned, err := svc.sqlSvc.GetUserMilestones(userID)
	if err != nil {
		return nil, err
	}
	achieved := make(map[string]*model.UserStreakMilestone, len(owned))
	for i := range owned {
		achieved[owned[i].MilestoneID] = &owned[i]
	}

	responses := make([]dto.MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		resp := dto.MilestoneResponse{
			ID:           m.ID,
			Days:         m.Days,
			Title:        m.Title,
			Description:  m.Description,
			BadgeURL:     m.BadgeURL,
			FreezeReward: m.FreezeReward,
		}
		if award, ok := achieved[m.ID]; ok {
			resp.Achieved = true
			achievedAt := award.AchievedAt
			resp.AchievedAt = &achievedAt
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
