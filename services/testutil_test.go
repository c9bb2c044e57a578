package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veredas-labs/trilha_api/model"
	"github.com/veredas-labs/trilha_api/shared"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// testServices wires the engine against an in-memory sqlite database.
// Redis is nil on purpose; every cache helper degrades to a miss.
type testServices struct {
	sql          *SqlService
	activity     *ActivityService
	streak       *StreakService
	mission      *MissionService
	achievement  *AchievementService
	notification *NotificationService
}

func newTestSqlService(t *testing.T) *SqlService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc := &SqlService{db: db, driver: "sqlite", database: ":memory:"}
	require.NoError(t, svc.Migrate())

	t.Cleanup(func() { _ = sqlDB.Close() })
	return svc
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	sqlSvc := newTestSqlService(t)
	monitoringSvc := &MonitoringService{}

	achievementSvc := &AchievementService{
		sqlSvc:        sqlSvc,
		monitoringSvc: monitoringSvc,
		userLocks:     shared.NewUserLockTable(),
	}
	missionSvc := &MissionService{
		sqlSvc:        sqlSvc,
		monitoringSvc: monitoringSvc,
	}
	streakSvc := &StreakService{
		sqlSvc:         sqlSvc,
		achievementSvc: achievementSvc,
		missionSvc:     missionSvc,
		monitoringSvc:  monitoringSvc,
		userLocks:      shared.NewUserLockTable(),
	}
	activitySvc := &ActivityService{
		sqlSvc:     sqlSvc,
		streakSvc:  streakSvc,
		missionSvc: missionSvc,
		userLocks:  shared.NewUserLockTable(),
	}
	notificationSvc := &NotificationService{sqlSvc: sqlSvc}

	return &testServices{
		sql:          sqlSvc,
		activity:     activitySvc,
		streak:       streakSvc,
		mission:      missionSvc,
		achievement:  achievementSvc,
		notification: notificationSvc,
	}
}

func createTestUser(t *testing.T, sqlSvc *SqlService) string {
	t.Helper()

	id, _ := uuid.NewV7()
	user, err := sqlSvc.CreateUser(&model.User{
		Username: "user_" + id.String()[:8],
		Email:    fmt.Sprintf("%s@example.com", id.String()[:8]),
		Password: "hashed",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	return user.ID
}

func createTestMission(t *testing.T, sqlSvc *SqlService, missionType, frequency string, target int) *model.Mission {
	t.Helper()

	id, _ := uuid.NewV7()
	mission, err := sqlSvc.CreateMission(&model.Mission{
		Title:       "mission " + id.String()[:8],
		Type:        missionType,
		Frequency:   frequency,
		Status:      model.MissionActive,
		TargetValue: target,
	})
	require.NoError(t, err)
	return mission
}

func createTestMilestone(t *testing.T, sqlSvc *SqlService, days, freezeReward int) *model.StreakMilestone {
	t.Helper()

	milestone, err := sqlSvc.CreateMilestone(&model.StreakMilestone{
		Days:         days,
		Title:        fmt.Sprintf("%d day streak", days),
		FreezeReward: freezeReward,
	})
	require.NoError(t, err)
	return milestone
}

func createTestDefinition(t *testing.T, sqlSvc *SqlService, def model.AchievementDefinition) *model.AchievementDefinition {
	t.Helper()

	id, _ := uuid.NewV7()
	if def.Slug == "" {
		def.Slug = "ach-" + id.String()[:8]
	}
	if def.Name == "" {
		def.Name = "achievement " + id.String()[:8]
	}
	if def.Status == "" {
		def.Status = model.AchievementActive
	}
	if def.Visibility == "" {
		def.Visibility = model.VisibilityPublic
	}

	created, err := sqlSvc.CreateAchievementDefinition(&def)
	require.NoError(t, err)
	return created
}

// daysAgo returns the calendar date n days before today.
func daysAgo(t *testing.T, n int) string {
	t.Helper()

	date, err := shared.AddDays(shared.Today(), -n)
	require.NoError(t, err)
	return date
}
