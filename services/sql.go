package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veredas-labs/trilha_api/model"
	"golang.org/x/crypto/bcrypt"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SqlService owns the primary store. Driver is selected by DB_DRIVER
// (postgres in deployments, sqlite for local dev); all other services
// go through its typed accessors.
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "postgres"
	}

	if ds.driver == "sqlite" {
		ds.database = os.Getenv("SQLITE_PATH")
		if ds.database == "" {
			ds.database = "trilha.db"
		}
		return ds.DefaultService.Configure(ctx)
	}

	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "trilha_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			host, user, password, dbname, port, sslmode)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *SqlService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = ds.open()
		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err := ds.Migrate(); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	if err := ds.seedInitialData(); err != nil {
		log.Printf("Failed to seed initial data: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) open() (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}
	if ds.driver == "sqlite" {
		return gorm.Open(sqlite.Open(ds.database), cfg)
	}
	return gorm.Open(postgres.Open(ds.database), cfg)
}

func (ds *SqlService) Migrate() error {
	return ds.db.AutoMigrate(
		&model.User{},

		// Activity ledger + streaks
		&model.DailyActivity{},
		&model.StreakState{},
		&model.StreakMilestone{},
		&model.UserStreakMilestone{},

		// Missions
		&model.Mission{},
		&model.UserMissionAssignment{},

		// Achievements
		&model.AchievementDefinition{},
		&model.UserAchievementProgress{},
		&model.AchievementEvent{},

		&model.RateLimit{},
	)
}

func (ds *SqlService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest // 400
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict // 409
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "connection refused") {
			statusCode = http.StatusServiceUnavailable // 503
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError // 500
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

// IsNotFound reports whether err (possibly wrapped by HandleError) is a
// missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ==================== USER METHODS ====================

func (ds *SqlService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *SqlService) GetAllUserIDs() ([]string, error) {
	var ids []string
	if err := ds.db.Model(&model.User{}).Pluck("id", &ids).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return ids, nil
}

// ==================== DAILY ACTIVITY METHODS ====================

func (ds *SqlService) GetDailyActivity(userID, date string) (*model.DailyActivity, error) {
	var activity model.DailyActivity
	if err := ds.db.Where("user_id = ? AND activity_date = ?", userID, date).
		First(&activity).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &activity, nil
}

func (ds *SqlService) GetOrCreateDailyActivity(userID, date string) (*model.DailyActivity, error) {
	activity, err := ds.GetDailyActivity(userID, date)
	if err == nil {
		return activity, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	activity = &model.DailyActivity{
		ID:           id.String(),
		UserID:       userID,
		ActivityDate: date,
	}
	if err := ds.db.Create(activity).Error; err != nil {
		// Lost a create race; the existing row wins.
		if existing, getErr := ds.GetDailyActivity(userID, date); getErr == nil {
			return existing, nil
		}
		return nil, ds.HandleError(err)
	}
	return activity, nil
}

func (ds *SqlService) UpdateDailyActivity(activity *model.DailyActivity) error {
	activity.UpdatedAt = time.Now()
	if err := ds.db.Save(activity).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *SqlService) GetActivityRange(userID, fromDate, toDate string) ([]model.DailyActivity, error) {
	var activities []model.DailyActivity
	if err := ds.db.Where("user_id = ? AND activity_date >= ? AND activity_date <= ?",
		userID, fromDate, toDate).
		Order("activity_date DESC").Find(&activities).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return activities, nil
}

func (ds *SqlService) IncrementMissionsCompleted(userID, date string) error {
	if _, err := ds.GetOrCreateDailyActivity(userID, date); err != nil {
		return err
	}
	err := ds.db.Model(&model.DailyActivity{}).
		Where("user_id = ? AND activity_date = ?", userID, date).
		Updates(map[string]interface{}{
			"missions_completed": gorm.Expr("missions_completed + 1"),
			"updated_at":         time.Now(),
		}).Error
	return ds.HandleError(err)
}

// ==================== STREAK METHODS ====================

func (ds *SqlService) GetStreakState(userID string) (*model.StreakState, error) {
	var streak model.StreakState
	if err := ds.db.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &streak, nil
}

func (ds *SqlService) GetOrCreateStreakState(userID string) (*model.StreakState, error) {
	streak, err := ds.GetStreakState(userID)
	if err == nil {
		return streak, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	streak = &model.StreakState{
		ID:     id.String(),
		UserID: userID,
	}
	if err := ds.db.Create(streak).Error; err != nil {
		if existing, getErr := ds.GetStreakState(userID); getErr == nil {
			return existing, nil
		}
		return nil, ds.HandleError(err)
	}
	return streak, nil
}

// UpdateStreakState writes the given fields in a single statement so a
// streak transition never lands partially.
func (ds *SqlService) UpdateStreakState(userID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := ds.db.Model(&model.StreakState{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
	return ds.HandleError(err)
}

// GetBreakableStreaks returns streaks with activity last seen on or
// before cutoffDate that are still running.
func (ds *SqlService) GetBreakableStreaks(cutoffDate string) ([]model.StreakState, error) {
	var streaks []model.StreakState
	if err := ds.db.Where("current_streak > 0 AND last_activity_date IS NOT NULL AND last_activity_date <= ?",
		cutoffDate).Find(&streaks).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return streaks, nil
}

// ==================== STREAK MILESTONE METHODS ====================

func (ds *SqlService) GetMilestones() ([]model.StreakMilestone, error) {
	var milestones []model.StreakMilestone
	if err := ds.db.Order("days ASC").Find(&milestones).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return milestones, nil
}

func (ds *SqlService) GetMilestonesUpTo(days int) ([]model.StreakMilestone, error) {
	var milestones []model.StreakMilestone
	if err := ds.db.Where("days <= ?", days).Order("days ASC").
		Find(&milestones).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return milestones, nil
}

func (ds *SqlService) CreateMilestone(milestone *model.StreakMilestone) (*model.StreakMilestone, error) {
	if milestone.ID == "" {
		id, _ := uuid.NewV7()
		milestone.ID = id.String()
	}
	if err := ds.db.Create(milestone).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return milestone, nil
}

func (ds *SqlService) GetUserMilestones(userID string) ([]model.UserStreakMilestone, error) {
	var awards []model.UserStreakMilestone
	if err := ds.db.Preload("Milestone").Where("user_id = ?", userID).
		Find(&awards).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return awards, nil
}

// AwardMilestone inserts the award row; a duplicate is a no-op and
// reports inserted=false so the caller can skip the freeze credit.
func (ds *SqlService) AwardMilestone(userID, milestoneID string) (bool, error) {
	id, _ := uuid.NewV7()
	award := &model.UserStreakMilestone{
		ID:          id.String(),
		UserID:      userID,
		MilestoneID: milestoneID,
		AchievedAt:  time.Now(),
	}

	res := ds.db.Clauses(clause.OnConflict{DoNothing: true}).Create(award)
	if res.Error != nil {
		return false, ds.HandleError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ==================== MISSION METHODS ====================

func (ds *SqlService) CreateMission(mission *model.Mission) (*model.Mission, error) {
	if mission.ID == "" {
		id, _ := uuid.NewV7()
		mission.ID = id.String()
	}
	if err := ds.db.Create(mission).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return mission, nil
}

func (ds *SqlService) GetMission(id string) (*model.Mission, error) {
	var mission model.Mission
	if err := ds.db.Where("id = ?", id).First(&mission).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &mission, nil
}

func (ds *SqlService) UpdateMission(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := ds.db.Model(&model.Mission{}).Where("id = ?", id).Updates(fields).Error
	return ds.HandleError(err)
}

func (ds *SqlService) ListMissions(status string) ([]model.Mission, error) {
	var missions []model.Mission
	query := ds.db.Model(&model.Mission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at ASC").Find(&missions).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return missions, nil
}

// GetAssignableMissions returns active missions inside their validity
// window as of now.
func (ds *SqlService) GetAssignableMissions(now time.Time) ([]model.Mission, error) {
	var missions []model.Mission
	if err := ds.db.Where("status = ?", model.MissionActive).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_until IS NULL OR valid_until >= ?", now).
		Find(&missions).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return missions, nil
}

// CreateAssignment inserts idempotently; duplicate (user, mission, date)
// reports inserted=false.
func (ds *SqlService) CreateAssignment(userID, missionID, assignedDate string) (bool, error) {
	id, _ := uuid.NewV7()
	assignment := &model.UserMissionAssignment{
		ID:           id.String(),
		UserID:       userID,
		MissionID:    missionID,
		AssignedDate: assignedDate,
	}

	res := ds.db.Clauses(clause.OnConflict{DoNothing: true}).Create(assignment)
	if res.Error != nil {
		return false, ds.HandleError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (ds *SqlService) GetAssignmentsForDate(userID, assignedDate string) ([]model.UserMissionAssignment, error) {
	var assignments []model.UserMissionAssignment
	if err := ds.db.Preload("Mission").
		Where("user_id = ? AND assigned_date = ?", userID, assignedDate).
		Find(&assignments).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return assignments, nil
}

func (ds *SqlService) GetIncompleteAssignments(userID, assignedDate string) ([]model.UserMissionAssignment, error) {
	var assignments []model.UserMissionAssignment
	if err := ds.db.Preload("Mission").
		Where("user_id = ? AND assigned_date = ? AND is_completed = ?", userID, assignedDate, false).
		Find(&assignments).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return assignments, nil
}

func (ds *SqlService) UpdateAssignment(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := ds.db.Model(&model.UserMissionAssignment{}).
		Where("id = ?", id).Updates(fields).Error
	return ds.HandleError(err)
}

// CompleteAssignment flips the completion flag once; a second call finds
// is_completed already true and reports transitioned=false.
func (ds *SqlService) CompleteAssignment(id string, progress int) (bool, error) {
	now := time.Now()
	res := ds.db.Model(&model.UserMissionAssignment{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"current_progress": progress,
			"is_completed":     true,
			"completed_at":     &now,
			"updated_at":       now,
		})
	if res.Error != nil {
		return false, ds.HandleError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ==================== ACHIEVEMENT DEFINITION METHODS ====================

func (ds *SqlService) CreateAchievementDefinition(def *model.AchievementDefinition) (*model.AchievementDefinition, error) {
	if def.ID == "" {
		id, _ := uuid.NewV7()
		def.ID = id.String()
	}
	if err := ds.db.Create(def).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return def, nil
}

func (ds *SqlService) GetAchievementDefinition(id string) (*model.AchievementDefinition, error) {
	var def model.AchievementDefinition
	if err := ds.db.Where("id = ?", id).First(&def).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &def, nil
}

func (ds *SqlService) GetAchievementBySlug(slug string) (*model.AchievementDefinition, error) {
	var def model.AchievementDefinition
	if err := ds.db.Where("slug = ?", slug).First(&def).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &def, nil
}

func (ds *SqlService) GetAchievementByName(name string) (*model.AchievementDefinition, error) {
	var def model.AchievementDefinition
	if err := ds.db.Where("name = ?", name).First(&def).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &def, nil
}

func (ds *SqlService) UpdateAchievementDefinition(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := ds.db.Model(&model.AchievementDefinition{}).
		Where("id = ?", id).Updates(fields).Error
	return ds.HandleError(err)
}

func (ds *SqlService) ListAchievementDefinitions(status string) ([]model.AchievementDefinition, error) {
	var defs []model.AchievementDefinition
	query := ds.db.Model(&model.AchievementDefinition{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("display_order ASC, created_at ASC").Find(&defs).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return defs, nil
}

func (ds *SqlService) GetActiveDefinitionsByTrigger(triggerTypes []string) ([]model.AchievementDefinition, error) {
	var defs []model.AchievementDefinition
	if err := ds.db.Where("status = ? AND trigger_type IN ?", model.AchievementActive, triggerTypes).
		Find(&defs).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return defs, nil
}

// ==================== ACHIEVEMENT PROGRESS METHODS ====================

func (ds *SqlService) GetAchievementProgress(userID, achievementID string) (*model.UserAchievementProgress, error) {
	var progress model.UserAchievementProgress
	if err := ds.db.Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

func (ds *SqlService) GetOrCreateAchievementProgress(userID string, def *model.AchievementDefinition) (*model.UserAchievementProgress, error) {
	progress, err := ds.GetAchievementProgress(userID, def.ID)
	if err == nil {
		return progress, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	progress = &model.UserAchievementProgress{
		ID:            id.String(),
		UserID:        userID,
		AchievementID: def.ID,
		TargetValue:   def.TargetValue(),
		Context:       map[string]interface{}{},
	}
	if err := ds.db.Create(progress).Error; err != nil {
		if existing, getErr := ds.GetAchievementProgress(userID, def.ID); getErr == nil {
			return existing, nil
		}
		return nil, ds.HandleError(err)
	}
	return progress, nil
}

func (ds *SqlService) UpdateAchievementProgress(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := ds.db.Model(&model.UserAchievementProgress{}).
		Where("id = ?", id).Updates(fields).Error
	return ds.HandleError(err)
}

func (ds *SqlService) GetUserAchievementProgress(userID string) ([]model.UserAchievementProgress, error) {
	var rows []model.UserAchievementProgress
	if err := ds.db.Preload("Achievement").Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

// ==================== ACHIEVEMENT EVENT METHODS ====================

func (ds *SqlService) CreateAchievementEvent(event *model.AchievementEvent) (*model.AchievementEvent, error) {
	if event.ID == "" {
		id, _ := uuid.NewV7()
		event.ID = id.String()
	}
	if err := ds.db.Create(event).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return event, nil
}

func (ds *SqlService) MarkEventProcessed(eventID string, evaluated int, unlockedIDs []string, evalErr string) error {
	now := time.Now()
	err := ds.db.Model(&model.AchievementEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"processed":              true,
			"processed_at":           &now,
			"achievements_evaluated": evaluated,
			"achievements_unlocked":  strings.Join(unlockedIDs, ","),
			"error":                  evalErr,
		}).Error
	return ds.HandleError(err)
}

// ==================== NOTIFICATION QUEUE METHODS ====================

func (ds *SqlService) GetUnnotifiedUnlocks(userID string) ([]model.UserAchievementProgress, error) {
	var rows []model.UserAchievementProgress
	if err := ds.db.Preload("Achievement").
		Where("user_id = ? AND is_unlocked = ? AND notified_at IS NULL", userID, true).
		Order("unlocked_at ASC").
		Find(&rows).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

// MarkUnlockNotified stamps notified_at only when still unset; re-marks
// report updated=false.
func (ds *SqlService) MarkUnlockNotified(userID, achievementID string) (bool, error) {
	now := time.Now()
	res := ds.db.Model(&model.UserAchievementProgress{}).
		Where("user_id = ? AND achievement_id = ? AND is_unlocked = ? AND notified_at IS NULL",
			userID, achievementID, true).
		Updates(map[string]interface{}{
			"notified_at": &now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, ds.HandleError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (ds *SqlService) MarkUnlockViewed(userID, achievementID string) (bool, error) {
	now := time.Now()
	res := ds.db.Model(&model.UserAchievementProgress{}).
		Where("user_id = ? AND achievement_id = ? AND is_unlocked = ? AND viewed_at IS NULL",
			userID, achievementID, true).
		Updates(map[string]interface{}{
			"viewed_at":  &now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, ds.HandleError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (ds *SqlService) CountUnlocks(userID string) (total, unnotified, unviewed int64, err error) {
	base := func() *gorm.DB {
		return ds.db.Model(&model.UserAchievementProgress{}).
			Where("user_id = ? AND is_unlocked = ?", userID, true)
	}

	if err = base().Count(&total).Error; err != nil {
		return 0, 0, 0, ds.HandleError(err)
	}
	if err = base().Where("notified_at IS NULL").Count(&unnotified).Error; err != nil {
		return 0, 0, 0, ds.HandleError(err)
	}
	if err = base().Where("viewed_at IS NULL").Count(&unviewed).Error; err != nil {
		return 0, 0, 0, ds.HandleError(err)
	}
	return total, unnotified, unviewed, nil
}

// ==================== BOOTSTRAP ====================

func (ds *SqlService) seedInitialData() error {
	return ds.createSystemUser()
}

// createSystemUser provisions the admin account batch jobs and seeders
// act as. Idempotent across restarts.
func (ds *SqlService) createSystemUser() error {
	var count int64
	ds.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Warn("SYSTEM_USER_PASSWORD not set, using default credentials")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	id, _ := uuid.NewV7()
	admin := &model.User{
		ID:       id.String(),
		Username: "system",
		Email:    "system@trilha.app",
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
	}

	if err := ds.db.Create(admin).Error; err != nil {
		return ds.HandleError(err)
	}

	log.Println("System user created")
	return nil
}

// Rate limit storage

func (ds *SqlService) GetRateLimit(identifier, endpointType string) (*model.RateLimit, error) {
	var rateLimit model.RateLimit
	err := ds.db.Where("identifier = ? AND endpoint_type = ?", identifier, endpointType).First(&rateLimit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, ds.HandleError(err)
	}
	return &rateLimit, nil
}

func (ds *SqlService) SaveRateLimit(rateLimit *model.RateLimit) error {
	if rateLimit.ID == "" {
		id, _ := uuid.NewV7()
		rateLimit.ID = id.String()
	}

	now := time.Now()
	if rateLimit.CreatedAt.IsZero() {
		rateLimit.CreatedAt = now
	}
	rateLimit.UpdatedAt = now

	if err := ds.db.Save(rateLimit).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *SqlService) UpdateRateLimit(rateLimit *model.RateLimit) error {
	err := ds.db.Model(rateLimit).Where("id = ?", rateLimit.ID).Updates(map[string]interface{}{
		"request_count": rateLimit.RequestCount,
		"blocked_until": rateLimit.BlockedUntil,
		"updated_at":    rateLimit.UpdatedAt,
	}).Error
	return ds.HandleError(err)
}

// CleanupOldRateLimits removes stale windows older than 7 days that are
// not currently blocking anyone.
func (ds *SqlService) CleanupOldRateLimits() error {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	now := time.Now()

	err := ds.db.Where("created_at < ? AND (blocked_until IS NULL OR blocked_until < ?)", cutoff, now).
		Delete(&model.RateLimit{}).Error
	return ds.HandleError(err)
}
