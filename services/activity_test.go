package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/shared"
)

func TestRecordActivity_CounterRouting(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	for _, activityType := range []string{
		shared.ActivityQuestion,
		shared.ActivityQuestion,
		shared.ActivityQuiz,
		shared.ActivityArticle,
		shared.ActivityTrailContent,
		shared.ActivityTrailCompleted,
	} {
		_, err := ts.activity.RecordActivity(userID, dto.RecordActivityRequest{ActivityType: activityType})
		require.NoError(t, err)
	}

	resp, err := ts.activity.GetTodayActivity(userID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QuestionsCompleted)
	assert.Equal(t, 1, resp.QuizzesCompleted)
	assert.Equal(t, 1, resp.ArticlesRead)
	assert.Equal(t, 1, resp.TrailContentCompleted)
	assert.Equal(t, 1, resp.TrailsCompleted)
	assert.True(t, resp.HasCompletedActivity)
}

func TestRecordActivity_BookmarkCountsNoLedgerColumn(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	resp, err := ts.activity.RecordActivity(userID, dto.RecordActivityRequest{
		ActivityType:     shared.ActivityBookmark,
		TimeSpentMinutes: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.QuestionsCompleted)
	assert.Equal(t, 0, resp.ArticlesRead)
	assert.Equal(t, 5, resp.TimeSpentMinutes, "time accumulates regardless of kind")
	assert.False(t, resp.HasCompletedActivity, "time alone is not a completed activity")
}

func TestRecordActivity_UnknownTypeRejected(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	_, err := ts.activity.RecordActivity(userID, dto.RecordActivityRequest{ActivityType: "juggling"})
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestRecordActivity_TimeAccumulatesAcrossCalls(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	_, err := ts.activity.RecordActivity(userID, dto.RecordActivityRequest{
		ActivityType:     shared.ActivityQuestion,
		TimeSpentMinutes: 10,
	})
	require.NoError(t, err)

	resp, err := ts.activity.RecordActivity(userID, dto.RecordActivityRequest{
		ActivityType:     shared.ActivityArticle,
		TimeSpentMinutes: 15,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, resp.TimeSpentMinutes)
}

func TestRecordActivity_FeedsStreak(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	resp, err := ts.activity.RecordActivity(userID, dto.RecordActivityRequest{ActivityType: shared.ActivityQuiz})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.StreakDay)

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
}

func TestGetActivityHistory(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	for _, offset := range []int{0, 1, 5} {
		activity, err := ts.sql.GetOrCreateDailyActivity(userID, daysAgo(t, offset))
		require.NoError(t, err)
		activity.QuestionsCompleted = offset + 1
		require.NoError(t, ts.sql.UpdateDailyActivity(activity))
	}

	history, err := ts.activity.GetActivityHistory(userID, 7)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, shared.Today(), history[0].ActivityDate, "newest first")

	// A narrower window drops the older row.
	history, err = ts.activity.GetActivityHistory(userID, 3)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestGetWeeklyStats(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	// Two content days plus one time-only day inside the window.
	a, err := ts.sql.GetOrCreateDailyActivity(userID, shared.Today())
	require.NoError(t, err)
	a.QuestionsCompleted = 4
	a.TimeSpentMinutes = 20
	require.NoError(t, ts.sql.UpdateDailyActivity(a))

	a, err = ts.sql.GetOrCreateDailyActivity(userID, daysAgo(t, 2))
	require.NoError(t, err)
	a.ArticlesRead = 2
	a.TrailsCompleted = 1
	require.NoError(t, ts.sql.UpdateDailyActivity(a))

	a, err = ts.sql.GetOrCreateDailyActivity(userID, daysAgo(t, 4))
	require.NoError(t, err)
	a.TimeSpentMinutes = 30
	require.NoError(t, ts.sql.UpdateDailyActivity(a))

	// Outside the trailing seven days entirely.
	a, err = ts.sql.GetOrCreateDailyActivity(userID, daysAgo(t, 10))
	require.NoError(t, err)
	a.QuestionsCompleted = 99
	require.NoError(t, ts.sql.UpdateDailyActivity(a))

	stats, err := ts.activity.GetWeeklyStats(userID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.QuestionsCompleted)
	assert.Equal(t, 2, stats.ArticlesRead)
	assert.Equal(t, 1, stats.TrailsCompleted)
	assert.Equal(t, 50, stats.TimeSpentMinutes)
	assert.Equal(t, 2, stats.ActiveDays, "time-only days are not active days")
	assert.Equal(t, daysAgo(t, 6), stats.StartDate)
	assert.Equal(t, shared.Today(), stats.EndDate)
}
