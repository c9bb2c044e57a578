package seeders

import (
	"log"
	"time"

	"github.com/veredas-labs/trilha_api/model"
	"gorm.io/gorm"
)

// AchievementSeeder handles seeding achievement definitions
type AchievementSeeder struct {
	db *gorm.DB
}

// NewAchievementSeeder creates a new achievement seeder
func NewAchievementSeeder(db *gorm.DB) *AchievementSeeder {
	return &AchievementSeeder{db: db}
}

// SeedAchievements seeds the base achievement definitions
func (s *AchievementSeeder) SeedAchievements() error {
	var admin model.User
	if err := s.db.Where("role = ?", model.RoleAdmin).First(&admin).Error; err != nil {
		log.Printf("No admin user found, seed the admin user first: %v", err)
		return err
	}

	achievements := s.getBaseAchievements(admin.ID)

	for _, achievement := range achievements {
		var existing model.AchievementDefinition
		if err := s.db.Where("slug = ?", achievement.Slug).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&achievement).Error; err != nil {
					log.Printf("Error creating achievement %s: %v", achievement.Slug, err)
					return err
				}
				log.Printf("Created achievement: %s", achievement.Name)
			} else {
				log.Printf("Error checking achievement %s: %v", achievement.Slug, err)
				return err
			}
		} else {
			log.Printf("Achievement %s already exists, skipping", achievement.Slug)
		}
	}

	log.Println("Achievement seeding completed successfully")
	return nil
}

func (s *AchievementSeeder) getBaseAchievements(createdBy string) []model.AchievementDefinition {
	now := time.Now()

	achievements := []model.AchievementDefinition{
		// General
		{
			ID:           "ach_first_login",
			Slug:         "first-login",
			Name:         "Primeiro Passo",
			Description:  "Faça seu primeiro login no sistema",
			Category:     "general",
			Difficulty:   "bronze",
			TriggerType:  model.TriggerFirstLogin,
			TargetCount:  1,
			BadgeIcon:    "log-in",
			BadgeColor:   "#10B981",
			DisplayOrder: 1,
		},

		// Engagement
		{
			ID:               "ach_login_streak_7",
			Slug:             "login-streak-7",
			Name:             "Sete Dias de Dedicação",
			Description:      "Faça login por 7 dias consecutivos",
			Category:         "engagement",
			Difficulty:       "silver",
			TriggerType:      model.TriggerLoginStreak,
			TargetStreakDays: 7,
			BadgeIcon:        "flame",
			BadgeColor:       "#F59E0B",
			DisplayOrder:     10,
		},
		{
			ID:               "ach_login_streak_30",
			Slug:             "login-streak-30",
			Name:             "Mês de Compromisso",
			Description:      "Faça login por 30 dias consecutivos",
			Category:         "engagement",
			Difficulty:       "gold",
			TriggerType:      model.TriggerLoginStreak,
			TargetStreakDays: 30,
			BadgeIcon:        "trophy",
			BadgeColor:       "#FFD700",
			DisplayOrder:     11,
		},

		// Trails
		{
			ID:           "ach_first_trail",
			Slug:         "first-trail",
			Name:         "Explorador Iniciante",
			Description:  "Complete sua primeira trilha",
			Category:     "trails",
			Difficulty:   "bronze",
			TriggerType:  model.TriggerCompleteTrails,
			TargetCount:  1,
			BadgeIcon:    "map",
			BadgeColor:   "#3B82F6",
			DisplayOrder: 20,
		},
		{
			ID:           "ach_trail_master_5",
			Slug:         "trail-master-5",
			Name:         "Trilheiro",
			Description:  "Complete 5 trilhas diferentes",
			Category:     "trails",
			Difficulty:   "silver",
			TriggerType:  model.TriggerCompleteTrails,
			TargetCount:  5,
			BadgeIcon:    "compass",
			BadgeColor:   "#3B82F6",
			DisplayOrder: 21,
		},
		{
			ID:           "ach_trail_master_10",
			Slug:         "trail-master-10",
			Name:         "Mestre das Trilhas",
			Description:  "Complete 10 trilhas diferentes",
			Category:     "trails",
			Difficulty:   "gold",
			Status:       model.AchievementInactive,
			TriggerType:  model.TriggerCompleteTrails,
			TargetCount:  10,
			BadgeIcon:    "award",
			BadgeColor:   "#3B82F6",
			DisplayOrder: 22,
		},
		{
			ID:                  "ach_perfect_trail",
			Slug:                "perfect-trail",
			Name:                "Perfeição",
			Description:         "Complete uma trilha com pontuação perfeita",
			Category:            "trails",
			Difficulty:          "silver",
			TriggerType:         model.TriggerCompleteTrailsPerf,
			TargetCount:         1,
			RequirePerfectScore: true,
			BadgeIcon:           "star",
			BadgeColor:          "#FFD700",
			DisplayOrder:        23,
		},

		// Wiki
		{
			ID:           "ach_first_article",
			Slug:         "first-article",
			Name:         "Leitor Curioso",
			Description:  "Leia seu primeiro artigo",
			Category:     "wiki",
			Difficulty:   "bronze",
			TriggerType:  model.TriggerReadArticlesCount,
			TargetCount:  1,
			BadgeIcon:    "book-open",
			BadgeColor:   "#10B981",
			DisplayOrder: 30,
		},
		{
			ID:           "ach_article_reader_10",
			Slug:         "article-reader-10",
			Name:         "Devorador de Conhecimento",
			Description:  "Leia 10 artigos",
			Category:     "wiki",
			Difficulty:   "silver",
			TriggerType:  model.TriggerReadArticlesCount,
			TargetCount:  10,
			BadgeIcon:    "book",
			BadgeColor:   "#10B981",
			DisplayOrder: 31,
		},
		{
			ID:           "ach_article_reader_50",
			Slug:         "article-reader-50",
			Name:         "Biblioteca Pessoal",
			Description:  "Leia 50 artigos",
			Category:     "wiki",
			Difficulty:   "gold",
			TriggerType:  model.TriggerReadArticlesCount,
			TargetCount:  50,
			BadgeIcon:    "library",
			BadgeColor:   "#10B981",
			DisplayOrder: 32,
		},

		// Questions
		{
			ID:           "ach_first_question",
			Slug:         "first-question",
			Name:         "Primeira Resposta",
			Description:  "Responda sua primeira questão",
			Category:     "questions",
			Difficulty:   "bronze",
			TriggerType:  model.TriggerQuestionsAnswered,
			TargetCount:  1,
			BadgeIcon:    "help-circle",
			BadgeColor:   "#F59E0B",
			DisplayOrder: 40,
		},
		{
			ID:           "ach_question_master_50",
			Slug:         "question-master-50",
			Name:         "Respondedor Ávido",
			Description:  "Responda 50 questões",
			Category:     "questions",
			Difficulty:   "silver",
			TriggerType:  model.TriggerQuestionsAnswered,
			TargetCount:  50,
			BadgeIcon:    "message-circle",
			BadgeColor:   "#F59E0B",
			DisplayOrder: 41,
		},
		{
			ID:             "ach_accuracy_master",
			Slug:           "accuracy-master",
			Name:           "Precisão Cirúrgica",
			Description:    "Atinja 90% de precisão em 20 questões",
			Category:       "questions",
			Difficulty:     "gold",
			Status:         model.AchievementInactive,
			TriggerType:    model.TriggerQuestionAccuracy,
			TargetAccuracy: 90,
			MinimumSample:  20,
			BadgeIcon:      "target",
			BadgeColor:     "#F59E0B",
			DisplayOrder:   42,
		},

		// Certification
		{
			ID:           "ach_first_certificate",
			Slug:         "first-certificate",
			Name:         "Certificado",
			Description:  "Obtenha seu primeiro certificado",
			Category:     "certification",
			Difficulty:   "silver",
			TriggerType:  model.TriggerFirstCertificate,
			TargetCount:  1,
			BadgeIcon:    "award",
			BadgeColor:   "#8B5CF6",
			DisplayOrder: 50,
		},
		{
			ID:           "ach_certificate_excellence",
			Slug:         "certificate-excellence",
			Name:         "Excelência Certificada",
			Description:  "Obtenha um certificado com mais de 90% de aproveitamento",
			Category:     "certification",
			Difficulty:   "gold",
			TriggerType:  model.TriggerCertificateHighScore,
			TargetCount:  90,
			BadgeIcon:    "medal",
			BadgeColor:   "#8B5CF6",
			DisplayOrder: 51,
		},
	}

	for i := range achievements {
		if achievements[i].Status == "" {
			achievements[i].Status = model.AchievementActive
		}
		achievements[i].Visibility = model.VisibilityPublic
		achievements[i].CreatedBy = createdBy
		achievements[i].CreatedAt = now
		achievements[i].UpdatedAt = now
	}

	return achievements
}
