package seeders

import (
	"log"

	"github.com/veredas-labs/trilha_api/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	// 1. Admin user first, achievements reference its id as creator
	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	// 2. Streak milestones (no dependencies)
	milestoneSeeder := NewMilestoneSeeder(s.db)
	if err := milestoneSeeder.SeedMilestones(); err != nil {
		log.Printf("Milestone seeding failed: %v", err)
		return err
	}

	// 3. Mission catalog
	missionSeeder := NewMissionSeeder(s.db)
	if err := missionSeeder.SeedMissions(); err != nil {
		log.Printf("Mission seeding failed: %v", err)
		return err
	}

	// 4. Achievement definitions
	achievementSeeder := NewAchievementSeeder(s.db)
	if err := achievementSeeder.SeedAchievements(); err != nil {
		log.Printf("Achievement seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.StreakMilestone{},
		&model.Mission{},
		&model.AchievementDefinition{},
	)
}

// SeedMilestonesOnly seeds only streak milestones
func (s *MainSeeder) SeedMilestonesOnly() error {
	milestoneSeeder := NewMilestoneSeeder(s.db)
	return milestoneSeeder.SeedMilestones()
}

// SeedMissionsOnly seeds only the mission catalog
func (s *MainSeeder) SeedMissionsOnly() error {
	missionSeeder := NewMissionSeeder(s.db)
	return missionSeeder.SeedMissions()
}

// SeedAchievementsOnly seeds only achievement definitions
func (s *MainSeeder) SeedAchievementsOnly() error {
	if err := NewAdminSeeder(s.db).SeedAdmin(); err != nil {
		return err
	}
	achievementSeeder := NewAchievementSeeder(s.db)
	return achievementSeeder.SeedAchievements()
}

// SeedAdminOnly seeds only the admin user
func (s *MainSeeder) SeedAdminOnly() error {
	adminSeeder := NewAdminSeeder(s.db)
	return adminSeeder.SeedAdmin()
}
