package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/veredas-labs/trilha_api/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeeder handles seeding the system admin user
type AdminSeeder struct {
	db *gorm.DB
}

// NewAdminSeeder creates a new admin seeder
func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

// SeedAdmin creates the system admin user if no admin exists
func (s *AdminSeeder) SeedAdmin() error {
	var existingAdmin model.User
	if err := s.db.Where("role = ?", model.RoleAdmin).First(&existingAdmin).Error; err == nil {
		log.Println("Admin user already exists, skipping admin seeding")
		return nil
	}

	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("SYSTEM_USER_PASSWORD not set, using default password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	admin := model.User{
		ID:        id.String(),
		Email:     "system@trilha.app",
		Username:  "system",
		Password:  string(hashedPassword),
		Role:      model.RoleAdmin,
		LastLogin: time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return err
	}

	log.Printf("Created admin user: %s", admin.Email)
	return nil
}
