package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veredas-labs/trilha_api/shared"
)

func TestUpdateStreakForActivity_FirstActivity(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	today := shared.Today()

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, today))

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	assert.Equal(t, 1, streak.TotalActiveDays)
	require.NotNil(t, streak.LastActivityDate)
	assert.Equal(t, today, *streak.LastActivityDate)
	require.NotNil(t, streak.CurrentStreakStartDate)
	assert.Equal(t, today, *streak.CurrentStreakStartDate)

	// The ledger row carries the streak day it represents.
	activity, err := ts.sql.GetDailyActivity(userID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, activity.StreakDay)
}

func TestUpdateStreakForActivity_SameDayIsNoOp(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	today := shared.Today()

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, today))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, today))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, today))

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.TotalActiveDays)
}

func TestUpdateStreakForActivity_ConsecutiveDaysContinue(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	dayOne := daysAgo(t, 2)
	dayTwo := daysAgo(t, 1)
	dayThree := shared.Today()

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, dayOne))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, dayTwo))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, dayThree))

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	assert.Equal(t, 3, streak.TotalActiveDays)
	require.NotNil(t, streak.CurrentStreakStartDate)
	assert.Equal(t, dayOne, *streak.CurrentStreakStartDate, "start date survives continuation")
}

func TestUpdateStreakForActivity_GapStartsOver(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 5)))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 4)))

	// Two missed days, then back.
	today := shared.Today()
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, today))

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak, "longest streak is preserved across resets")
	assert.Equal(t, 3, streak.TotalActiveDays)
	require.NotNil(t, streak.CurrentStreakStartDate)
	assert.Equal(t, today, *streak.CurrentStreakStartDate)
}

func TestMilestoneAwardedExactlyOnce(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMilestone(t, ts.sql, 2, 1)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 2)))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 1)))

	awards, err := ts.sql.GetUserMilestones(userID)
	require.NoError(t, err)
	require.Len(t, awards, 1)

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.FreezesAvailable, "freeze reward credited with the award")

	// Day three crosses the threshold again; nothing new lands.
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, shared.Today()))

	awards, err = ts.sql.GetUserMilestones(userID)
	require.NoError(t, err)
	assert.Len(t, awards, 1)

	streak, err = ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.FreezesAvailable)
}

func TestMilestoneCatchUpAwardsAllCrossed(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMilestone(t, ts.sql, 1, 1)
	createTestMilestone(t, ts.sql, 3, 2)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 2)))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 1)))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, shared.Today()))

	awards, err := ts.sql.GetUserMilestones(userID)
	require.NoError(t, err)
	assert.Len(t, awards, 2)

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.FreezesAvailable)
}

func TestUseFreeze(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, shared.Today()))
	require.NoError(t, ts.sql.UpdateStreakState(userID, map[string]interface{}{
		"freezes_available": 2,
	}))

	resp, err := ts.streak.UseFreeze(userID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FreezesAvailable)
	assert.Equal(t, 1, resp.FreezesUsed)
	assert.True(t, resp.CanUseFreeze)

	activity, err := ts.sql.GetDailyActivity(userID, shared.Today())
	require.NoError(t, err)
	assert.True(t, activity.FreezeUsed)
}

func TestUseFreeze_NoneAvailable(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, shared.Today()))

	_, err := ts.streak.UseFreeze(userID, "")
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "No streak freezes available", appErr.Message)
}

func TestUseFreeze_NoStreak(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	_, err := ts.streak.UseFreeze(userID, "")
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestUseFreeze_InvalidDate(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	_, err := ts.streak.UseFreeze(userID, "not-a-date")
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestCheckAndBreakStreaks_BreaksStaleStreak(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 4)))
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 3)))

	require.NoError(t, ts.streak.CheckAndBreakStreaks())

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Nil(t, streak.CurrentStreakStartDate)
	assert.Equal(t, 2, streak.LongestStreak, "longest streak survives the break")
	assert.Equal(t, 2, streak.TotalActiveDays)
}

func TestCheckAndBreakStreaks_FreezeProtects(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 2)))

	// The freeze sits on yesterday, the single missed day so far.
	activity, err := ts.sql.GetOrCreateDailyActivity(userID, daysAgo(t, 1))
	require.NoError(t, err)
	activity.FreezeUsed = true
	require.NoError(t, ts.sql.UpdateDailyActivity(activity))

	require.NoError(t, ts.streak.CheckAndBreakStreaks())

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
}

func TestCheckAndBreakStreaks_FreezeAbsorbsOnlyOneDay(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	lastActive := daysAgo(t, 5)
	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, lastActive))

	// A freeze spent on the first missed day lapsed days ago; it must
	// not keep protecting the streak on later sweeps.
	frozen, err := shared.AddDays(lastActive, 1)
	require.NoError(t, err)
	activity, err := ts.sql.GetOrCreateDailyActivity(userID, frozen)
	require.NoError(t, err)
	activity.FreezeUsed = true
	require.NoError(t, ts.sql.UpdateDailyActivity(activity))

	require.NoError(t, ts.streak.CheckAndBreakStreaks())

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Nil(t, streak.CurrentStreakStartDate)
}

func TestCheckAndBreakStreaks_YesterdayIsSafe(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, 1)))

	require.NoError(t, ts.streak.CheckAndBreakStreaks())

	streak, err := ts.sql.GetStreakState(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak, "one missed day is not yet a break")
}

func TestGetUserStreak_LazyCreateAndNextMilestone(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMilestone(t, ts.sql, 3, 1)
	createTestMilestone(t, ts.sql, 7, 2)

	// First read never 404s.
	resp, err := ts.streak.GetUserStreak(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStreak)
	require.NotNil(t, resp.NextMilestone)
	assert.Equal(t, 3, *resp.NextMilestone)

	for i := 3; i >= 0; i-- {
		require.NoError(t, ts.streak.UpdateStreakForActivity(userID, daysAgo(t, i)))
	}

	resp, err = ts.streak.GetUserStreak(userID)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.CurrentStreak)
	require.NotNil(t, resp.NextMilestone)
	assert.Equal(t, 7, *resp.NextMilestone)
	require.NotNil(t, resp.DaysUntilNextMilestone)
	assert.Equal(t, 3, *resp.DaysUntilNextMilestone)
}

func TestGetUserMilestones_FlagsAchieved(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestMilestone(t, ts.sql, 1, 0)
	createTestMilestone(t, ts.sql, 7, 2)

	require.NoError(t, ts.streak.UpdateStreakForActivity(userID, shared.Today()))

	milestones, err := ts.streak.GetUserMilestones(userID)
	require.NoError(t, err)
	require.Len(t, milestones, 2)

	assert.Equal(t, 1, milestones[0].Days)
	assert.True(t, milestones[0].Achieved)
	assert.NotNil(t, milestones[0].AchievedAt)

	assert.Equal(t, 7, milestones[1].Days)
	assert.False(t, milestones[1].Achieved)
	assert.Nil(t, milestones[1].AchievedAt)
}
