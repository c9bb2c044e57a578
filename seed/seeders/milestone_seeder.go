package seeders

import (
	"log"
	"time"

	"github.com/veredas-labs/trilha_api/model"
	"gorm.io/gorm"
)

// MilestoneSeeder handles seeding streak milestones
type MilestoneSeeder struct {
	db *gorm.DB
}

// NewMilestoneSeeder creates a new milestone seeder
func NewMilestoneSeeder(db *gorm.DB) *MilestoneSeeder {
	return &MilestoneSeeder{db: db}
}

// SeedMilestones seeds the streak milestone catalog
func (s *MilestoneSeeder) SeedMilestones() error {
	milestones := s.getMilestones()

	for _, milestone := range milestones {
		var existing model.StreakMilestone
		if err := s.db.Where("days = ?", milestone.Days).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&milestone).Error; err != nil {
					log.Printf("Error creating milestone %d days: %v", milestone.Days, err)
					return err
				}
				log.Printf("Created milestone: %s (%d days)", milestone.Title, milestone.Days)
			} else {
				log.Printf("Error checking milestone %d days: %v", milestone.Days, err)
				return err
			}
		} else {
			log.Printf("Milestone %d days already exists, skipping", milestone.Days)
		}
	}

	log.Println("Milestone seeding completed successfully")
	return nil
}

func (s *MilestoneSeeder) getMilestones() []model.StreakMilestone {
	now := time.Now()

	return []model.StreakMilestone{
		{
			ID:           "milestone_3_days",
			Days:         3,
			Title:        "Iniciante Dedicado",
			Description:  "Manteve 3 dias de sequência consecutivos",
			FreezeReward: 1,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "milestone_7_days",
			Days:         7,
			Title:        "Uma Semana Forte",
			Description:  "Completou 7 dias consecutivos de estudos",
			FreezeReward: 2,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "milestone_14_days",
			Days:         14,
			Title:        "Duas Semanas de Sucesso",
			Description:  "14 dias de dedicação contínua",
			FreezeReward: 3,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "milestone_30_days",
			Days:         30,
			Title:        "Campeão Mensal",
			Description:  "30 dias de compromisso com seus estudos",
			FreezeReward: 5,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "milestone_60_days",
			Days:         60,
			Title:        "Mestre da Consistência",
			Description:  "60 dias de aprendizado ininterrupto",
			FreezeReward: 8,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "milestone_100_days",
			Days:         100,
			Title:        "Lenda do Conhecimento",
			Description:  "100 dias de sequência - uma conquista impressionante!",
			FreezeReward: 15,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}
