package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rebooto/rebooto_api/seed/seeders"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Parse command line flags
	var (
		seedType = flag.String("type", "all", "Type of seeding: all, admin, achievements, courses")
		dbPath   = flag.String("db", "", "SQLite database path (overrides env configuration)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := openDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Create main seeder
	mainSeeder := seeders.NewMainSeeder(db)

	// Run seeding based on type
	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "admin":
		log.Println("Seeding admin account only...")
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	case "achievements":
		log.Println("Seeding achievements only...")
		if err := mainSeeder.SeedAchievementsOnly(); err != nil {
			log.Fatalf("Failed to seed achievements: %v", err)
		}
	case "courses":
		log.Println("Seeding courses only...")
		if err := mainSeeder.SeedCoursesOnly(); err != nil {
			log.Fatalf("Failed to seed courses: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'admin', 'achievements', or 'courses'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func openDatabase(dbPath string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	}

	if dbPath != "" || os.Getenv("DB_DRIVER") == "sqlite" {
		if dbPath == "" {
			dbPath = os.Getenv("DB_NAME")
		}
		if dbPath == "" {
			dbPath = "rebooto.db"
		}
		log.Printf("Connecting to SQLite database: %s", dbPath)
		return gorm.Open(sqlite.Open(dbPath), cfg)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required for postgres seeding")
	}
	return gorm.Open(postgres.Open(dsn), cfg)
}

func showHelp() {
	log.Println(`
Database Seeding Tool for Rebooto

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, admin, achievements, courses
  -db string
        SQLite database path (overrides env configuration)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only the admin account
  go run seed/main.go -type=admin

  # Seed into a local SQLite file
  go run seed/main.go -db=./rebooto.db

Environment Variables:
  DATABASE_URL - Postgres connection string
  DB_DRIVER    - Set to "sqlite" to use a local file instead
  DB_NAME      - SQLite database path (default: rebooto.db)`)
}
