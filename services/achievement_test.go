package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veredas-labs/trilha_api/dto"
	"github.com/veredas-labs/trilha_api/model"
	"github.com/veredas-labs/trilha_api/shared"
)

func TestTrackEvent_CountTriggerUnlocksAtTarget(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerReadArticlesCount,
		TargetCount: 10,
	})

	for i := 0; i < 9; i++ {
		unlocked, err := ts.achievement.TrackEvent(userID, dto.ArticleReadEvent{ArticleID: "a"})
		require.NoError(t, err)
		assert.Empty(t, unlocked)
	}

	progress, err := ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, progress.CurrentValue)
	assert.Equal(t, 90, progress.ProgressPercentage)
	assert.False(t, progress.IsUnlocked)

	// The tenth article crosses the line.
	unlocked, err := ts.achievement.TrackEvent(userID, dto.ArticleReadEvent{ArticleID: "a"})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])

	progress, err = ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.True(t, progress.IsUnlocked)
	assert.NotNil(t, progress.UnlockedAt)
	assert.Equal(t, 100, progress.ProgressPercentage)

	// An eleventh article moves nothing.
	unlocked, err = ts.achievement.TrackEvent(userID, dto.ArticleReadEvent{ArticleID: "a"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	progress, err = ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, progress.CurrentValue, "unlocked rows never move again")
}

func TestTrackEvent_FirstLogin(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerFirstLogin,
		TargetCount: 1,
	})

	unlocked, err := ts.achievement.TrackEvent(userID, dto.LoginEvent{})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])

	unlocked, err = ts.achievement.TrackEvent(userID, dto.LoginEvent{})
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestTrackEvent_EventTypeGatesEvaluation(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerReadArticlesCount,
		TargetCount: 5,
	})

	// A quiz event can never feed an article trigger.
	unlocked, err := ts.achievement.TrackEvent(userID, dto.QuizCompletedEvent{QuizID: "q"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	_, err = ts.sql.GetAchievementProgress(userID, def.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "no progress row is created for untouched definitions")
}

func TestTrackEvent_AccuracyBelowMinimumSampleStaysPinned(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType:    model.TriggerQuestionAccuracy,
		TargetAccuracy: 90,
		MinimumSample:  5,
	})

	for i := 0; i < 4; i++ {
		unlocked, err := ts.achievement.TrackEvent(userID, dto.QuestionAnsweredEvent{QuestionID: "q", Correct: true})
		require.NoError(t, err)
		assert.Empty(t, unlocked)
	}

	progress, err := ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CurrentValue, "small samples never surface a percentage")
	assert.False(t, progress.IsUnlocked)

	// Fifth correct answer reaches the sample; accuracy is 100.
	unlocked, err := ts.achievement.TrackEvent(userID, dto.QuestionAnsweredEvent{QuestionID: "q", Correct: true})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])
}

func TestTrackEvent_AccuracyBelowTargetDoesNotUnlock(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType:    model.TriggerQuestionAccuracy,
		TargetAccuracy: 90,
		MinimumSample:  5,
	})

	// Four correct, one wrong: 80% over the full sample.
	for i := 0; i < 4; i++ {
		_, err := ts.achievement.TrackEvent(userID, dto.QuestionAnsweredEvent{QuestionID: "q", Correct: true})
		require.NoError(t, err)
	}
	unlocked, err := ts.achievement.TrackEvent(userID, dto.QuestionAnsweredEvent{QuestionID: "q", Correct: false})
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	progress, err := ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, progress.CurrentValue)
	assert.False(t, progress.IsUnlocked)
}

func TestTrackEvent_PerfectScoreGate(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerCompleteTrailsPerf,
		TargetCount: 2,
	})

	unlocked, err := ts.achievement.TrackEvent(userID, dto.TrailCompletedEvent{TrailID: "t1"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	progress, err := ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CurrentValue, "imperfect completions never move the perfect counter")

	_, err = ts.achievement.TrackEvent(userID, dto.TrailCompletedEvent{TrailID: "t1", PerfectScore: true})
	require.NoError(t, err)
	unlocked, err = ts.achievement.TrackEvent(userID, dto.TrailCompletedEvent{TrailID: "t2", PerfectScore: true})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])
}

func TestTrackEvent_SpecificTrail(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType:      model.TriggerCompleteSpecificTrail,
		TargetCount:      1,
		TargetResourceID: "trail-history",
	})

	unlocked, err := ts.achievement.TrackEvent(userID, dto.TrailCompletedEvent{TrailID: "trail-other"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	unlocked, err = ts.achievement.TrackEvent(userID, dto.TrailCompletedEvent{TrailID: "trail-history"})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])
}

func TestTrackEvent_StreakMirrorsNeverAccumulates(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType:      model.TriggerLoginStreak,
		TargetStreakDays: 7,
	})

	_, err := ts.achievement.TrackEvent(userID, dto.StreakUpdatedEvent{CurrentStreak: 3})
	require.NoError(t, err)
	_, err = ts.achievement.TrackEvent(userID, dto.StreakUpdatedEvent{CurrentStreak: 5})
	require.NoError(t, err)

	progress, err := ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, progress.CurrentValue, "progress mirrors the streak, 3+5 would be wrong")

	unlocked, err := ts.achievement.TrackEvent(userID, dto.StreakUpdatedEvent{CurrentStreak: 7})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])
}

func TestTrackEvent_CertificateHighScoreTracksBest(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerCertificateHighScore,
		TargetCount: 90,
	})

	_, err := ts.achievement.TrackEvent(userID, dto.CertificateEarnedEvent{CertificateID: "c1", Score: 80})
	require.NoError(t, err)
	_, err = ts.achievement.TrackEvent(userID, dto.CertificateEarnedEvent{CertificateID: "c2", Score: 70})
	require.NoError(t, err)

	progress, err := ts.sql.GetAchievementProgress(userID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, progress.CurrentValue, "a lower score never regresses the best")

	unlocked, err := ts.achievement.TrackEvent(userID, dto.CertificateEarnedEvent{CertificateID: "c3", Score: 95})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])
}

func TestTrackEvent_TimeSpentAccumulates(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType:       model.TriggerTimeSpentTotal,
		TargetTimeSeconds: 100,
	})

	unlocked, err := ts.achievement.TrackEvent(userID, dto.TimeSpentEvent{Seconds: 60})
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	unlocked, err = ts.achievement.TrackEvent(userID, dto.TimeSpentEvent{Seconds: 60})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, def.ID, unlocked[0])
}

func TestTrackEvent_ArchivedDefinitionIgnored(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerReadArticlesCount,
		TargetCount: 1,
	})

	require.NoError(t, ts.achievement.ArchiveAchievement(def.ID))

	unlocked, err := ts.achievement.TrackEvent(userID, dto.ArticleReadEvent{ArticleID: "a"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestTrackEvent_WritesEventLedger(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerFirstLogin,
		TargetCount: 1,
	})

	_, err := ts.achievement.TrackEvent(userID, dto.LoginEvent{})
	require.NoError(t, err)

	var events []model.AchievementEvent
	require.NoError(t, ts.sql.Db().Where("user_id = ?", userID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventUserLogin, events[0].EventType)
	assert.True(t, events[0].Processed)
	assert.NotNil(t, events[0].ProcessedAt)
	assert.Equal(t, 1, events[0].AchievementsEvaluated)
	assert.NotEmpty(t, events[0].AchievementsUnlocked)
}

func TestGetUserAchievements_SecretHiddenUntilUnlocked(t *testing.T) {
	ts := newTestServices(t)
	userID := createTestUser(t, ts.sql)
	createTestDefinition(t, ts.sql, model.AchievementDefinition{
		Slug:        "public-one",
		TriggerType: model.TriggerReadArticlesCount,
		TargetCount: 5,
	})
	secret := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		Slug:        "secret-one",
		TriggerType: model.TriggerFirstLogin,
		TargetCount: 1,
		Visibility:  model.VisibilitySecret,
	})

	achievements, err := ts.achievement.GetUserAchievements(userID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "public-one", achievements[0].Achievement.Slug)

	unlocked, err := ts.achievement.TrackEvent(userID, dto.LoginEvent{})
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, secret.ID, unlocked[0])

	achievements, err = ts.achievement.GetUserAchievements(userID)
	require.NoError(t, err)
	assert.Len(t, achievements, 2)
}

func TestCreateAchievement_DuplicateSlugConflicts(t *testing.T) {
	ts := newTestServices(t)
	adminID := createTestUser(t, ts.sql)

	req := dto.CreateAchievementRequest{
		Slug:        "first-login",
		Name:        "Bem-vindo",
		TriggerType: model.TriggerFirstLogin,
		TargetCount: 1,
	}
	_, err := ts.achievement.CreateAchievement(adminID, req)
	require.NoError(t, err)

	req.Name = "Outro nome"
	_, err = ts.achievement.CreateAchievement(adminID, req)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestUpdateAchievement_PartialFields(t *testing.T) {
	ts := newTestServices(t)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerReadArticlesCount,
		TargetCount: 10,
		Difficulty:  "bronze",
	})

	difficulty := "gold"
	target := 25
	updated, err := ts.achievement.UpdateAchievement(def.ID, dto.UpdateAchievementRequest{
		Difficulty:  &difficulty,
		TargetCount: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "gold", updated.Difficulty)
	assert.Equal(t, 25, updated.TargetCount)
	assert.Equal(t, def.Slug, updated.Slug, "untouched fields survive")
}

func TestSetBadgeImage(t *testing.T) {
	ts := newTestServices(t)
	def := createTestDefinition(t, ts.sql, model.AchievementDefinition{
		TriggerType: model.TriggerFirstLogin,
		TargetCount: 1,
	})

	updated, err := ts.achievement.SetBadgeImage(def.ID, "badges/abc.png", "https://cdn.example.com/badges/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "badges/abc.png", updated.BadgeObjectKey)
	assert.Equal(t, "https://cdn.example.com/badges/abc.png", updated.BadgeImageURL)

	_, err = ts.achievement.SetBadgeImage("missing", "k", "u")
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
