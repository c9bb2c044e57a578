package seeders

import (
	"log"
	"time"

	"github.com/veredas-labs/trilha_api/model"
	"gorm.io/gorm"
)

// MissionSeeder handles seeding the mission catalog
type MissionSeeder struct {
	db *gorm.DB
}

// NewMissionSeeder creates a new mission seeder
func NewMissionSeeder(db *gorm.DB) *MissionSeeder {
	return &MissionSeeder{db: db}
}

// SeedMissions seeds the daily, weekly and monthly mission catalog
func (s *MissionSeeder) SeedMissions() error {
	missions := s.getMissions()

	for _, mission := range missions {
		var existing model.Mission
		if err := s.db.Where("title = ?", mission.Title).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&mission).Error; err != nil {
					log.Printf("Error creating mission %s: %v", mission.Title, err)
					return err
				}
				log.Printf("Created mission: %s (%s)", mission.Title, mission.Frequency)
			} else {
				log.Printf("Error checking mission %s: %v", mission.Title, err)
				return err
			}
		} else {
			log.Printf("Mission %s already exists, skipping", mission.Title)
		}
	}

	log.Println("Mission seeding completed successfully")
	return nil
}

func (s *MissionSeeder) getMissions() []model.Mission {
	now := time.Now()

	missions := []model.Mission{
		// Daily
		{
			ID:          "mission_daily_questions",
			Title:       "Responda 3 Perguntas",
			Description: "Complete 3 perguntas hoje para testar seus conhecimentos",
			Type:        model.MissionCompleteQuestions,
			Frequency:   model.FrequencyDaily,
			TargetValue: 3,
		},
		{
			ID:          "mission_daily_article",
			Title:       "Leia 1 Artigo",
			Description: "Leia pelo menos 1 artigo da wiki hoje",
			Type:        model.MissionReadArticle,
			Frequency:   model.FrequencyDaily,
			TargetValue: 1,
		},
		{
			ID:          "mission_daily_study_time",
			Title:       "Estude 15 Minutos",
			Description: "Dedique pelo menos 15 minutos aos seus estudos",
			Type:        model.MissionSpendTimeLearning,
			Frequency:   model.FrequencyDaily,
			TargetValue: 15,
		},
		{
			ID:          "mission_daily_login",
			Title:       "Login Diário",
			Description: "Faça login todos os dias para manter sua sequência",
			Type:        model.MissionLoginDaily,
			Frequency:   model.FrequencyDaily,
			TargetValue: 1,
		},

		// Weekly
		{
			ID:          "mission_weekly_questions",
			Title:       "Responda 15 Perguntas",
			Description: "Complete 15 perguntas durante a semana",
			Type:        model.MissionCompleteQuestions,
			Frequency:   model.FrequencyWeekly,
			TargetValue: 15,
		},
		{
			ID:          "mission_weekly_quizzes",
			Title:       "Complete 2 Quizzes",
			Description: "Finalize 2 quizzes completos nesta semana",
			Type:        model.MissionCompleteQuiz,
			Frequency:   model.FrequencyWeekly,
			TargetValue: 2,
		},
		{
			ID:          "mission_weekly_articles",
			Title:       "Leia 5 Artigos",
			Description: "Leia 5 artigos da wiki durante a semana",
			Type:        model.MissionReadArticle,
			Frequency:   model.FrequencyWeekly,
			TargetValue: 5,
		},
		{
			ID:          "mission_weekly_trails",
			Title:       "Complete 3 Trilhas",
			Description: "Finalize 3 conteúdos de trilhas esta semana",
			Type:        model.MissionCompleteTrailContent,
			Frequency:   model.FrequencyWeekly,
			TargetValue: 3,
		},
		{
			ID:          "mission_weekly_streak",
			Title:       "Mantenha sua Sequência",
			Description: "Mantenha 7 dias de sequência consecutivos",
			Type:        model.MissionCompleteStreak,
			Frequency:   model.FrequencyWeekly,
			TargetValue: 7,
		},

		// Monthly
		{
			ID:          "mission_monthly_questions",
			Title:       "Mestre das Perguntas",
			Description: "Responda 100 perguntas durante o mês",
			Type:        model.MissionCompleteQuestions,
			Frequency:   model.FrequencyMonthly,
			TargetValue: 100,
		},
		{
			ID:          "mission_monthly_quizzes",
			Title:       "Expert em Quizzes",
			Description: "Complete 10 quizzes este mês",
			Type:        model.MissionCompleteQuiz,
			Frequency:   model.FrequencyMonthly,
			TargetValue: 10,
		},
		{
			ID:          "mission_monthly_articles",
			Title:       "Leitor Voraz",
			Description: "Leia 20 artigos da wiki durante o mês",
			Type:        model.MissionReadArticle,
			Frequency:   model.FrequencyMonthly,
			TargetValue: 20,
		},
		{
			ID:          "mission_monthly_study_time",
			Title:       "Estudante Dedicado",
			Description: "Estude por 10 horas durante o mês",
			Type:        model.MissionSpendTimeLearning,
			Frequency:   model.FrequencyMonthly,
			TargetValue: 600,
		},
		{
			ID:          "mission_monthly_streak",
			Title:       "Sequência de Ouro",
			Description: "Mantenha 30 dias de sequência consecutivos",
			Type:        model.MissionCompleteStreak,
			Frequency:   model.FrequencyMonthly,
			TargetValue: 30,
		},
	}

	for i := range missions {
		missions[i].Status = model.MissionActive
		missions[i].CreatedAt = now
		missions[i].UpdatedAt = now
	}

	return missions
}
