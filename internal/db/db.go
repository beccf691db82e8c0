package db

import (
	"log"
	"mojiboard/internal/models"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=mojiboard port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	// TranslateError lets services tell a unique-index violation (nickname,
	// like pair) apart from other failures via gorm.ErrDuplicatedKey.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.Profile{},
		&models.AnonymousActor{},
		&models.Board{},
		&models.ImagePost{},
		&models.Like{},
		&models.Comment{},
		&models.Generation{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}
