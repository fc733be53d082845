package database

import (
	"fmt"
	"log"

	"superfan/config"
	"superfan/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Println("✅ Connected to database")

	if cfg.DBAutoMigrate {
		log.Println("🟡 Starting auto-migration...")
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		log.Println("✅ Auto migration completed")
	}

	return db, nil
}

// Migrate is exported separately so tests can run it against other drivers.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Club{},
		&models.User{},
		&models.HouseAccount{},
		&models.PointWallet{},
		&models.LedgerEntry{},
		&models.ProcessedEvent{},
		&models.WeeklyUpfrontStat{},
		&models.Campaign{},
		&models.RewardClaim{},
	)
}
