// services/activity.go
package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/shared"
	log "github.com/sirupsen/logrus"
)

// ActivityService is the ledger every learning action flows through.
// Recording an activity bumps today's counters, then feeds the streak
// and mission engines.
type ActivityService struct {
	appContext.DefaultService

	sqlSvc     *SqlService
	streakSvc  *StreakService
	missionSvc *MissionService
	redisSvc   *RedisService

	userLocks *shared.UserLockTable
}

const ACTIVITY_SVC = "activity_svc"

func (svc ActivityService) Id() string {
	return ACTIVITY_SVC
}

func (svc *ActivityService) Configure(ctx *appContext.Context) error {
	svc.userLocks = shared.NewUserLockTable()
	return svc.DefaultService.Configure(ctx)
}

func (svc *ActivityService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	svc.missionSvc = svc.Service(MISSION_SVC).(*MissionService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func (svc *ActivityService) RecordActivity(userID string, req dto.RecordActivityRequest) (*dto.DailyActivityResponse, error) {
	svc.userLocks.Lock(userID)
	defer svc.userLocks.Unlock(userID)

	today := shared.Today()

	activity, err := svc.sqlSvc.GetOrCreateDailyActivity(userID, today)
	if err != nil {
		return nil, err
	}

	switch req.ActivityType {
	case shared.ActivityQuestion:
		activity.QuestionsCompleted++
	case shared.ActivityQuiz:
		activity.QuizzesCompleted++
	case shared.ActivityArticle:
		activity.ArticlesRead++
	case shared.ActivityTrailContent:
		activity.TrailContentCompleted++
	case shared.ActivityTrailCompleted:
		activity.TrailsCompleted++
	case shared.ActivityBookmark:
		// Bookmarks feed missions but count toward no ledger counter.
	default:
		return nil, shared.NewBadRequestError(nil, "Unknown activity type: "+req.ActivityType)
	}

	// Time spent accumulates regardless of activity kind.
	if req.TimeSpentMinutes > 0 {
		activity.TimeSpentMinutes += req.TimeSpentMinutes
	}

	if err := svc.sqlSvc.UpdateDailyActivity(activity); err != nil {
		return nil, err
	}

	if err := svc.streakSvc.UpdateStreakForActivity(userID, today); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to update streak")
	}

	if err := svc.missionSvc.UpdateMissionProgress(userID, req); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to update mission progress")
	}

	svc.redisSvc.InvalidateUser(context.Background(), userID)

	// Re-read so the response reflects mission side effects.
	activity, err = svc.sqlSvc.GetDailyActivity(userID, today)
	if err != nil {
		return nil, err
	}

	resp := dto.NewDailyActivityResponse(activity)
	return &resp, nil
}

func (svc *ActivityService) GetTodayActivity(userID string) (*dto.DailyActivityResponse, error) {
	activity, err := svc.sqlSvc.GetOrCreateDailyActivity(userID, shared.Today())
	if err != nil {
		return nil, err
	}

	resp := dto.NewDailyActivityResponse(activity)
	return &resp, nil
}

func (svc *ActivityService) GetActivityHistory(userID string, days int) ([]dto.DailyActivityResponse, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	today := shared.Today()
	from, err := shared.AddDays(today, -(days - 1))
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to compute history range")
	}

	activities, err := svc.sqlSvc.GetActivityRange(userID, from, today)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DailyActivityResponse, 0, len(activities))
	for i := range activities {
		responses = append(responses, dto.NewDailyActivityResponse(&activities[i]))
	}
	return responses, nil
}

// GetWeeklyStats aggregates the trailing 7 days, today included.
func (svc *ActivityService) GetWeeklyStats(userID string) (*dto.WeeklyStatsResponse, error) {
	var cached dto.WeeklyStatsResponse
	if svc.redisSvc.GetCachedJSON(context.Background(), WeeklyStatsCacheKey(userID), &cached) {
		return &cached, nil
	}

	today := shared.Today()
	from, err := shared.AddDays(today, -6)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to compute week range")
	}

	activities, err := svc.sqlSvc.GetActivityRange(userID, from, today)
	if err != nil {
		return nil, err
	}

	stats := &dto.WeeklyStatsResponse{
		StartDate: from,
		EndDate:   today,
	}

	for i := range activities {
		a := &activities[i]
		stats.QuestionsCompleted += a.QuestionsCompleted
		stats.QuizzesCompleted += a.QuizzesCompleted
		stats.ArticlesRead += a.ArticlesRead
		stats.TrailContentCompleted += a.TrailContentCompleted
		stats.TrailsCompleted += a.TrailsCompleted
		stats.TimeSpentMinutes += a.TimeSpentMinutes
		stats.MissionsCompleted += a.MissionsCompleted
		if a.HasCompletedActivity() {
			stats.ActiveDays++
		}
	}

	svc.redisSvc.CacheJSON(context.Background(), WeeklyStatsCacheKey(userID), stats)
	return stats, nil
}
