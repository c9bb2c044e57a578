package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/model"
	"github.com/veredas-labs/trilha_api/shared"
)

func TestAssignMissionsToUser_Idempotent(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 5)
	createTestMission(t, ts.sql, model.MissionReadArticle, model.FrequencyDaily, 3)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
}

func TestAssignMissionsToUser_ReassignmentKeepsProgress(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 5)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType: shared.ActivityQuestion,
	}))

	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, 1, assignments[0].CurrentProgress)
}

func TestAssignMissions_SkipsInactiveAndExpired(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	active := createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 5)

	inactive := createTestMission(t, ts.sql, model.MissionReadArticle, model.FrequencyDaily, 3)
	require.NoError(t, ts.sql.UpdateMission(inactive.ID, map[string]interface{}{
		"status": model.MissionInactive,
	}))

	past := time.Now().UTC().Add(-48 * time.Hour)
	expired := createTestMission(t, ts.sql, model.MissionCompleteQuiz, model.FrequencyDaily, 2)
	require.NoError(t, ts.sql.UpdateMission(expired.ID, map[string]interface{}{
		"valid_until": past,
	}))

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, active.ID, assignments[0].MissionID)
}

func TestUpdateMissionProgress_TypeMatching(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	questions := createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 5)
	articles := createTestMission(t, ts.sql, model.MissionReadArticle, model.FrequencyDaily, 3)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType: shared.ActivityQuestion,
	}))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	byMission := map[string]int{}
	for _, a := range assignments {
		byMission[a.MissionID] = a.CurrentProgress
	}
	assert.Equal(t, 1, byMission[questions.ID])
	assert.Equal(t, 0, byMission[articles.ID], "non-matching missions never move")
}

func TestUpdateMissionProgress_MetricValuedIncrements(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	timeMission := createTestMission(t, ts.sql, model.MissionSpendTimeLearning, model.FrequencyDaily, 60)
	scoreMission := createTestMission(t, ts.sql, model.MissionAchieveScore, model.FrequencyWeekly, 500)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType:     shared.ActivityQuiz,
		TimeSpentMinutes: 25,
		Score:            80,
	}))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	byMission := map[string]int{}
	for _, a := range assignments {
		byMission[a.MissionID] = a.CurrentProgress
	}
	assert.Equal(t, 25, byMission[timeMission.ID])
	assert.Equal(t, 80, byMission[scoreMission.ID])
}

func TestUpdateMissionProgress_ScoreOnlyFromQuizzes(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	scoreMission := createTestMission(t, ts.sql, model.MissionAchieveScore, model.FrequencyWeekly, 500)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	// A scored question carries points too, but only quiz scores count.
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType: shared.ActivityQuestion,
		Score:        80,
	}))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, scoreMission.ID, assignments[0].MissionID)
	assert.Equal(t, 0, assignments[0].CurrentProgress)
}

func TestUpdateMissionProgress_TrailCompletionIsNotContent(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	mission := createTestMission(t, ts.sql, model.MissionCompleteTrailContent, model.FrequencyDaily, 3)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType: shared.ActivityTrailCompleted,
	}))
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType: shared.ActivityTrailContent,
	}))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, mission.ID, assignments[0].MissionID)
	assert.Equal(t, 1, assignments[0].CurrentProgress, "finishing a whole trail is not a content completion")
}

func TestMissionCompletion_TransitionsExactlyOnce(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	mission := createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 2)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	record := dto.RecordActivityRequest{ActivityType: shared.ActivityQuestion}
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, record))
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, record))
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, record))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, mission.ID, assignments[0].MissionID)
	assert.True(t, assignments[0].IsCompleted)
	assert.NotNil(t, assignments[0].CompletedAt)
	assert.Equal(t, 2, assignments[0].CurrentProgress, "completed missions stop accumulating")

	activity, err := ts.sql.GetDailyActivity(userID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, activity.MissionsCompleted, "the ledger counts the transition once")
}

func TestMarkLoginMission(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	login := createTestMission(t, ts.sql, model.MissionLoginDaily, model.FrequencyDaily, 1)
	createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 5)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	// Generic activity never moves the login mission.
	require.NoError(t, ts.mission.UpdateMissionProgress(userID, dto.RecordActivityRequest{
		ActivityType: shared.ActivityQuestion,
	}))

	require.NoError(t, ts.mission.MarkLoginMission(userID))
	require.NoError(t, ts.mission.MarkLoginMission(userID))

	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	for _, a := range assignments {
		if a.MissionID == login.ID {
			assert.True(t, a.IsCompleted)
		}
	}

	activity, err := ts.sql.GetDailyActivity(userID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, activity.MissionsCompleted)
}

func TestUpdateStreakMissions_MirrorsStreakLength(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMission(t, ts.sql, model.MissionCompleteStreak, model.FrequencyWeekly, 7)

	today := shared.Today()
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, today))

	require.NoError(t, ts.mission.UpdateStreakMissions(userID, 3))
	assignments, err := ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, 3, assignments[0].CurrentProgress)

	require.NoError(t, ts.mission.UpdateStreakMissions(userID, 5))
	assignments, err = ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	assert.Equal(t, 5, assignments[0].CurrentProgress)

	// A shorter streak never rolls progress back.
	require.NoError(t, ts.mission.UpdateStreakMissions(userID, 2))
	assignments, err = ts.sql.GetAssignmentsForDate(userID, today)
	require.NoError(t, err)
	assert.Equal(t, 5, assignments[0].CurrentProgress)
}

func TestGetUserMissions_LazyAssignAndGrouping(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMission(t, ts.sql, model.MissionCompleteQuestions, model.FrequencyDaily, 5)
	createTestMission(t, ts.sql, model.MissionReadArticle, model.FrequencyWeekly, 10)
	createTestMission(t, ts.sql, model.MissionSpendTimeLearning, model.FrequencyMonthly, 600)

	overview, err := ts.mission.GetUserMissions(userID)
	require.NoError(t, err)
	assert.Len(t, overview.Daily, 1)
	assert.Len(t, overview.Weekly, 1)
	assert.Len(t, overview.Monthly, 1)
	assert.Equal(t, 0, overview.Daily[0].ProgressPercentage)
}

func TestMissionAdminLifecycle(t *testing.T) {
	ts := newTestServices(t)

	mission, err := ts.mission.CreateMission(dto.CreateMissionRequest{
		Title:       "Responda 10 perguntas",
		Type:        model.MissionCompleteQuestions,
		Frequency:   model.FrequencyDaily,
		TargetValue: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MissionActive, mission.Status)

	newTitle := "Responda 15 perguntas"
	newTarget := 15
	updated, err := ts.mission.UpdateMission(mission.ID, dto.UpdateMissionRequest{
		Title:       &newTitle,
		TargetValue: &newTarget,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, 15, updated.TargetValue)

	require.NoError(t, ts.mission.ArchiveMission(mission.ID))

	archived, err := ts.mission.ListMissions(model.MissionArchived)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	// Archived missions never get assigned.
	userID := createTestUser(t, ts.sql)
	require.NoError(t, ts.mission.AssignMissionsToUser(userID, shared.Today()))
	assignments, err := ts.sql.GetAssignmentsForDate(userID, shared.Today())
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestUpdateMission_NotFound(t *testing.T) {
	ts := newTestServices(t)

	_, err := ts.mission.UpdateMission("missing", dto.UpdateMissionRequest{})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
