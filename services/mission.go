// services/mission.go
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

// MissionService assigns mission instances and moves their progress as
// activity flows in. Assignments are keyed by calendar day regardless
// of mission frequency; weekly and monthly missions simply carry larger
// targets.
type MissionService struct {
	appContext.DefaultService

	sqlSvc        *SqlService
	monitoringSvc *MonitoringService
	redisSvc      *RedisService
}

const MISSION_SVC = "mission_svc"

func (svc MissionService) Id() string {
	return MISSION_SVC
}

func (svc *MissionService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MissionService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// AssignMissionsToUser creates assignment rows for every active mission
// the user lacks for the date. Re-invocation never duplicates or resets.
func (svc *MissionService) AssignMissionsToUser(userID, date string) error {
	if date == "" {
		date = shared.Today()
	}

	missions, err := svc.sqlSvc.GetAssignableMissions(time.Now().UTC())
	if err != nil {
		return err
	}

	assigned := false
	for _, mission := range missions {
		inserted, err := svc.sqlSvc.CreateAssignment(userID, mission.ID, date)
		if err != nil {
			return err
		}
		assigned = assigned || inserted
	}

	if assigned {
		svc.redisSvc.InvalidateUser(context.Background(), userID)
	}
	return nil
}

// AssignMissionsToAllUsers runs the daily assignment batch; a failure
// for one user never stops the sweep.
func (svc *MissionService) AssignMissionsToAllUsers() error {
	userIDs, err := svc.sqlSvc.GetAllUserIDs()
	if err != nil {
		return err
	}

	today := shared.Today()
	failures := 0
	for _, userID := range userIDs {
		if err := svc.AssignMissionsToUser(userID, today); err != nil {
			failures++
			log.WithError(err).WithField("user_id", userID).
				Error("Failed to assign missions")
		}
	}

	log.WithFields(log.Fields{
		"users":    len(userIDs),
		"failures": failures,
	}).Info("Mission assignment sweep finished")
	return nil
}

// UpdateMissionProgress advances today's incomplete assignments that
// track the given activity.
func (svc *MissionService) UpdateMissionProgress(userID string, activity dto.RecordActivityRequest) error {
	today := shared.Today()

	assignments, err := svc.sqlSvc.GetIncompleteAssignments(userID, today)
	if err != nil {
		return err
	}

	for i := range assignments {
		assignment := &assignments[i]
		increment := missionIncrement(assignment.Mission.Type, activity)
		if increment <= 0 {
			continue
		}
		if err := svc.applyProgress(userID, assignment, increment, today); err != nil {
			return err
		}
	}
	return nil
}

// missionIncrement maps an activity onto a mission type. Score and time
// missions advance by the metric value; everything else by one.
func missionIncrement(missionType string, activity dto.RecordActivityRequest) int {
	switch missionType {
	case model.MissionCompleteQuestions:
		if activity.ActivityType == shared.ActivityQuestion {
			return 1
		}
	case model.MissionCompleteQuiz:
		if activity.ActivityType == shared.ActivityQuiz {
			return 1
		}
	case model.MissionReadArticle:
		if activity.ActivityType == shared.ActivityArticle {
			return 1
		}
	case model.MissionCompleteTrailContent:
		if activity.ActivityType == shared.ActivityTrailContent {
			return 1
		}
	case model.MissionBookmarkArticles:
		if activity.ActivityType == shared.ActivityBookmark {
			return 1
		}
	case model.MissionAchieveScore:
		if activity.ActivityType == shared.ActivityQuiz {
			return activity.Score
		}
	case model.MissionSpendTimeLearning:
		return activity.TimeSpentMinutes
	}
	// login_daily and complete_streak only move via MarkLoginMission /
	// the streak engine, never via generic activity.
	return 0
}

func (svc *MissionService) applyProgress(userID string, assignment *model.UserMissionAssignment, increment int, date string) error {
	defer svc.redisSvc.InvalidateUser(context.Background(), userID)

	newProgress := assignment.CurrentProgress + increment

	if newProgress < assignment.Mission.TargetValue {
		return svc.sqlSvc.UpdateAssignment(assignment.ID, map[string]interface{}{
			"current_progress": newProgress,
		})
	}

	transitioned, err := svc.sqlSvc.CompleteAssignment(assignment.ID, newProgress)
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	svc.monitoringSvc.RecordMissionCompleted(assignment.Mission.Type)

	// The daily ledger counts completions exactly once per transition.
	if err := svc.sqlSvc.IncrementMissionsCompleted(userID, date); err != nil {
		log.WithError(err).WithField("user_id", userID).
			Warn("Failed to count mission completion")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"mission": assignment.MissionID,
	}).Info("Mission completed")
	return nil
}

// MarkLoginMission completes today's login_daily assignments. Login is
// not an activity kind, so this is an explicit call on the auth path.
func (svc *MissionService) MarkLoginMission(userID string) error {
	today := shared.Today()

	assignments, err := svc.sqlSvc.GetIncompleteAssignments(userID, today)
	if err != nil {
		return err
	}

	for i := range assignments {
		assignment := &assignments[i]
		if assignment.Mission.Type != model.MissionLoginDaily {
			continue
		}
		if err := svc.applyProgress(userID, assignment, assignment.Mission.TargetValue, today); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStreakMissions advances complete_streak missions to mirror the
// user's current streak length.
func (svc *MissionService) UpdateStreakMissions(userID string, currentStreak int) error {
	today := shared.Today()

	assignments, err := svc.sqlSvc.GetIncompleteAssignments(userID, today)
	if err != nil {
		return err
	}

	for i := range assignments {
		assignment := &assignments[i]
		if assignment.Mission.Type != model.MissionCompleteStreak {
			continue
		}
		delta := currentStreak - assignment.CurrentProgress
		if delta <= 0 {
			continue
		}
		if err := svc.applyProgress(userID, assignment, delta, today); err != nil {
			return err
		}
	}
	return nil
}

// GetUserMissions returns today's assignments grouped by frequency,
// lazily assigning first so a user ahead of the daily batch still sees
// missions.
func (svc *MissionService) GetUserMissions(userID string) (*dto.MissionsOverviewResponse, error) {
	var cached dto.MissionsOverviewResponse
	if svc.redisSvc.GetCachedJSON(context.Background(), MissionsCacheKey(userID), &cached) {
		return &cached, nil
	}

	today := shared.Today()

	if err := svc.AssignMissionsToUser(userID, today); err != nil {
		return nil, err
	}

	assignments, err := svc.sqlSvc.GetAssignmentsForDate(userID, today)
	if err != nil {
		return nil, err
	}

	overview := &dto.MissionsOverviewResponse{
		Daily:   []dto.MissionProgressResponse{},
		Weekly:  []dto.MissionProgressResponse{},
		Monthly: []dto.MissionProgressResponse{},
	}

	for i := range assignments {
		resp := newMissionProgressResponse(&assignments[i])
		switch assignments[i].Mission.Frequency {
		case model.FrequencyWeekly:
			overview.Weekly = append(overview.Weekly, resp)
		case model.FrequencyMonthly:
			overview.Monthly = append(overview.Monthly, resp)
		default:
			overview.Daily = append(overview.Daily, resp)
		}
	}

	svc.redisSvc.CacheJSON(context.Background(), MissionsCacheKey(userID), overview)
	return overview, nil
}

func newMissionProgressResponse(a *model.UserMissionAssignment) dto.MissionProgressResponse {
	return dto.MissionProgressResponse{
		AssignmentID:       a.ID,
		MissionID:          a.MissionID,
		Title:              a.Mission.Title,
		Description:        a.Mission.Description,
		Type:               a.Mission.Type,
		Frequency:          a.Mission.Frequency,
		IconURL:            a.Mission.IconURL,
		TargetValue:        a.Mission.TargetValue,
		CurrentProgress:    a.CurrentProgress,
		ProgressPercentage: shared.ProgressPercentage(a.CurrentProgress, a.Mission.TargetValue),
		IsCompleted:        a.IsCompleted,
		CompletedAt:        a.CompletedAt,
	}
}

// ==================== ADMIN CRUD ====================

func (svc *MissionService) CreateMission(req dto.CreateMissionRequest) (*model.Mission, error) {
	mission := &model.Mission{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Frequency:   req.Frequency,
		Status:      model.MissionActive,
		TargetValue: req.TargetValue,
		IconURL:     req.IconURL,
		ValidFrom:   req.ValidFrom,
		ValidUntil:  req.ValidUntil,
	}
	return svc.sqlSvc.CreateMission(mission)
}

func (svc *MissionService) UpdateMission(id string, req dto.UpdateMissionRequest) (*model.Mission, error) {
	if _, err := svc.sqlSvc.GetMission(id); err != nil {
		return nil, shared.NewNotFoundError(err, "Mission not found")
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.TargetValue != nil {
		fields["target_value"] = *req.TargetValue
	}
	if req.IconURL != nil {
		fields["icon_url"] = *req.IconURL
	}

	if len(fields) > 0 {
		if err := svc.sqlSvc.UpdateMission(id, fields); err != nil {
			return nil, err
		}
	}
	return svc.sqlSvc.GetMission(id)
}

// ArchiveMission retires a mission without touching existing
// assignments.
func (svc *MissionService) ArchiveMission(id string) error {
	if _, err := svc.sqlSvc.GetMission(id); err != nil {
		return shared.NewNotFoundError(err, "Mission not found")
	}
	return svc.sqlSvc.UpdateMission(id, map[string]interface{}{
		"status": model.MissionArchived,
	})
}

func (svc *MissionService) ListMissions(status string) ([]model.Mission, error) {
	return svc.sqlSvc.ListMissions(status)
}
