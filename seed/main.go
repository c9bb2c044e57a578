package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/veredas-labs/trilha_api/seed/seeders"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, milestones, missions, achievements, admin")
		dbPath   = flag.String("db", "", "Database path (overrides SQLITE_PATH env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("SQLITE_PATH")
		if databasePath == "" {
			databasePath = "trilha.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "milestones":
		log.Println("Seeding streak milestones only...")
		if err := mainSeeder.SeedMilestonesOnly(); err != nil {
			log.Fatalf("Failed to seed milestones: %v", err)
		}
	case "missions":
		log.Println("Seeding missions only...")
		if err := mainSeeder.SeedMissionsOnly(); err != nil {
			log.Fatalf("Failed to seed missions: %v", err)
		}
	case "achievements":
		log.Println("Seeding achievements only...")
		if err := mainSeeder.SeedAchievementsOnly(); err != nil {
			log.Fatalf("Failed to seed achievements: %v", err)
		}
	case "admin":
		log.Println("Seeding admin user only...")
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'milestones', 'missions', 'achievements', or 'admin'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the Trilha Gamification API

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, milestones, missions, achievements, admin
  -db string
        Database path (overrides SQLITE_PATH environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only streak milestones
  go run seed/main.go -type=milestones

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  SQLITE_PATH - Default database path (default: trilha.db)
  SYSTEM_USER_PASSWORD - Password for the seeded admin user (default: admin123)
`)
}
